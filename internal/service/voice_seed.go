package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// VoiceSeed is the operator file format for voice rules and profiles.
//
//	company:
//	  - Write plainly.
//	platforms:
//	  linkedin:
//	    - No hashtags.
//	profiles:
//	  - id: 5d1c...
//	    displayName: Dana
//	    personalVoice: [Dry humour.]
type VoiceSeed struct {
	Company   []string            `yaml:"company"`
	Platforms map[string][]string `yaml:"platforms"`
	Profiles  []ProfileSeed       `yaml:"profiles"`
}

type ProfileSeed struct {
	Id            uuid.UUID `yaml:"id"`
	DisplayName   string    `yaml:"displayName"`
	PersonalVoice []string  `yaml:"personalVoice"`
	ExploreModel  string    `yaml:"exploreModel"`
	DraftModel    string    `yaml:"draftModel"`
}

type SeedResult struct {
	Company   bool
	Platforms int
	Profiles  int
}

// ParseVoiceSeed decodes and validates a seed file. Unknown platforms and
// profiles without an id are rejected before anything is written.
func ParseVoiceSeed(r io.Reader) (*VoiceSeed, error) {
	var seed VoiceSeed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode voice seed: %w", err)
	}

	for name := range seed.Platforms {
		if !entity.Platform(name).IsValid() {
			return nil, fmt.Errorf("unknown platform %q", name)
		}
	}
	for i, p := range seed.Profiles {
		if p.Id == uuid.Nil {
			return nil, fmt.Errorf("profile %d: id is required", i)
		}
	}
	return &seed, nil
}

// ApplyVoiceSeed writes the seed through the voice service so cached voices
// are invalidated, then upserts profiles.
func ApplyVoiceSeed(ctx context.Context, uowFactory unitofwork.RepositoryFactory, voices IVoiceService, seed *VoiceSeed) (*SeedResult, error) {
	res := &SeedResult{}

	if seed.Company != nil {
		if err := voices.SetCompany(ctx, seed.Company, nil); err != nil {
			return res, fmt.Errorf("company voice: %w", err)
		}
		res.Company = true
	}

	for name, rules := range seed.Platforms {
		if err := voices.SetPlatform(ctx, entity.Platform(name), rules, nil); err != nil {
			return res, fmt.Errorf("platform voice %s: %w", name, err)
		}
		res.Platforms++
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	for _, p := range seed.Profiles {
		profile := &entity.Profile{
			Id:            p.Id,
			DisplayName:   p.DisplayName,
			PersonalVoice: lo.Ternary(p.PersonalVoice == nil, []string{}, p.PersonalVoice),
			ExploreModel:  p.ExploreModel,
			DraftModel:    p.DraftModel,
			CreatedAt:     now,
			UpdatedAt:     &now,
		}
		if err := uow.ProfileRepository().Upsert(ctx, profile); err != nil {
			return res, fmt.Errorf("profile %s: %w", p.Id, err)
		}
		res.Profiles++
	}
	return res, nil
}
