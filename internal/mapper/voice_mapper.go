package mapper

import (
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/model"

	"gorm.io/datatypes"
)

type VoiceMapper struct{}

func NewVoiceMapper() *VoiceMapper {
	return &VoiceMapper{}
}

func (m *VoiceMapper) ToEntity(v *model.VoiceConfig) *entity.VoiceConfig {
	if v == nil {
		return nil
	}

	var platform *entity.Platform
	if v.Platform != nil {
		p := entity.Platform(*v.Platform)
		platform = &p
	}

	rules := make([]string, len(v.Rules))
	copy(rules, v.Rules)

	return &entity.VoiceConfig{
		Id:        v.Id,
		Type:      entity.VoiceConfigType(v.Type),
		Platform:  platform,
		Rules:     rules,
		UpdatedBy: v.UpdatedBy,
		UpdatedAt: v.UpdatedAt,
	}
}

func (m *VoiceMapper) ToModel(v *entity.VoiceConfig) *model.VoiceConfig {
	if v == nil {
		return nil
	}

	var platform *string
	if v.Platform != nil {
		p := string(*v.Platform)
		platform = &p
	}

	return &model.VoiceConfig{
		Id:        v.Id,
		Type:      string(v.Type),
		Platform:  platform,
		Rules:     datatypes.NewJSONSlice(v.Rules),
		UpdatedBy: v.UpdatedBy,
		UpdatedAt: v.UpdatedAt,
	}
}

func (m *VoiceMapper) ProfileToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	voice := make([]string, len(p.PersonalVoice))
	copy(voice, p.PersonalVoice)

	return &entity.Profile{
		Id:            p.Id,
		DisplayName:   p.DisplayName,
		PersonalVoice: voice,
		ExploreModel:  p.ExploreModel,
		DraftModel:    p.DraftModel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *VoiceMapper) ProfileToModel(p *entity.Profile) *model.Profile {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Profile{
		Id:            p.Id,
		DisplayName:   p.DisplayName,
		PersonalVoice: datatypes.JSONSlice[string](p.PersonalVoice),
		ExploreModel:  p.ExploreModel,
		DraftModel:    p.DraftModel,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}
