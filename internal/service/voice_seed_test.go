package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoiceSeed(t *testing.T) {
	profileId := uuid.New()
	seed, err := ParseVoiceSeed(strings.NewReader(`
company:
  - Write plainly.
platforms:
  linkedin:
    - No hashtags.
profiles:
  - id: ` + profileId.String() + `
    displayName: Dana
    personalVoice: [Dry humour.]
    draftModel: gpt-4o-mini
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Write plainly."}, seed.Company)
	assert.Equal(t, []string{"No hashtags."}, seed.Platforms["linkedin"])
	require.Len(t, seed.Profiles, 1)
	assert.Equal(t, profileId, seed.Profiles[0].Id)
	assert.Equal(t, "gpt-4o-mini", seed.Profiles[0].DraftModel)
}

func TestParseVoiceSeed_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown platform", "platforms:\n  myspace: [x]\n"},
		{"profile without id", "profiles:\n  - displayName: Dana\n"},
		{"unknown field", "compnay: [x]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVoiceSeed(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestApplyVoiceSeed(t *testing.T) {
	s := newStore()
	voices := NewVoiceService(s, memory.NewVoiceCache(time.Minute), logger.NewNopLogger())
	profileId := uuid.New()

	res, err := ApplyVoiceSeed(context.Background(), s, voices, &VoiceSeed{
		Company:   []string{"Write plainly."},
		Platforms: map[string][]string{"twitter": {"Short."}},
		Profiles:  []ProfileSeed{{Id: profileId, DisplayName: "Dana"}},
	})
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Company: true, Platforms: 1, Profiles: 1}, res)

	require.NotNil(t, s.company)
	assert.Equal(t, []string{"Write plainly."}, s.company.Rules)
	assert.Equal(t, []string{"Short."}, s.platforms[entity.PlatformTwitter].Rules)
	require.Contains(t, s.profiles, profileId)
	assert.Equal(t, "Dana", s.profiles[profileId].DisplayName)
	assert.Empty(t, s.profiles[profileId].PersonalVoice)
}

func TestApplyVoiceSeed_LeavesCompanyWhenAbsent(t *testing.T) {
	s := newStore()
	s.company = &entity.VoiceConfig{Type: entity.VoiceConfigCompany, Rules: []string{"Existing."}}
	voices := NewVoiceService(s, memory.NewVoiceCache(time.Minute), logger.NewNopLogger())

	res, err := ApplyVoiceSeed(context.Background(), s, voices, &VoiceSeed{})
	require.NoError(t, err)
	assert.False(t, res.Company)
	assert.Equal(t, []string{"Existing."}, s.company.Rules)
}
