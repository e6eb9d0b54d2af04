package service

import (
	"context"
	"testing"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceService_Resolve(t *testing.T) {
	s := newStore()
	s.company = &entity.VoiceConfig{Type: entity.VoiceConfigCompany, Rules: []string{"Plain words."}}
	s.platforms[entity.PlatformTwitter] = &entity.VoiceConfig{Type: entity.VoiceConfigPlatform, Rules: []string{"Under 280 chars."}}
	svc := NewVoiceService(s, memory.NewVoiceCache(time.Minute), logger.NewNopLogger())
	profile := &entity.Profile{Id: uuid.New(), PersonalVoice: []string{"Wry."}}

	personal := svc.Resolve(context.Background(), profile, entity.VoiceModePersonal, lo.ToPtr(entity.PlatformTwitter))
	assert.Equal(t, []string{"Wry."}, personal.Personal)
	assert.Equal(t, []string{"Plain words."}, personal.Company)
	assert.Equal(t, []string{"Under 280 chars."}, personal.Platform)

	compound := svc.Resolve(context.Background(), profile, entity.VoiceModeCompound, nil)
	assert.Empty(t, compound.Personal)
	assert.Equal(t, []string{"Plain words."}, compound.Company)
	assert.Empty(t, compound.Platform)
}

func TestVoiceService_CachesIncludingMissing(t *testing.T) {
	s := newStore()
	svc := NewVoiceService(s, memory.NewVoiceCache(time.Minute), logger.NewNopLogger())

	for i := 0; i < 3; i++ {
		rules := svc.Resolve(context.Background(), nil, entity.VoiceModePersonal, lo.ToPtr(entity.PlatformLinkedIn))
		assert.Empty(t, rules.Company)
	}
	assert.Equal(t, 2, s.voiceReads, "one company read and one platform read")
}

func TestVoiceService_SetInvalidatesCache(t *testing.T) {
	s := newStore()
	svc := NewVoiceService(s, memory.NewVoiceCache(time.Minute), logger.NewNopLogger())

	assert.Empty(t, svc.Resolve(context.Background(), nil, entity.VoiceModePersonal, nil).Company)

	require.NoError(t, svc.SetCompany(context.Background(), []string{"Be kind."}, nil))
	assert.Equal(t, []string{"Be kind."}, svc.Resolve(context.Background(), nil, entity.VoiceModePersonal, nil).Company)

	require.NoError(t, svc.SetPlatform(context.Background(), entity.PlatformLongform, []string{"Use headers."}, nil))
	assert.Equal(t, []string{"Use headers."},
		svc.Resolve(context.Background(), nil, entity.VoiceModePersonal, lo.ToPtr(entity.PlatformLongform)).Platform)
}
