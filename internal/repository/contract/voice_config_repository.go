package contract

import (
	"context"

	"content-engine-be/internal/entity"

	"github.com/google/uuid"
)

type VoiceConfigRepository interface {
	// FindCompany returns nil when no company voice is configured.
	FindCompany(ctx context.Context) (*entity.VoiceConfig, error)
	FindPlatform(ctx context.Context, platform entity.Platform) (*entity.VoiceConfig, error)
	Upsert(ctx context.Context, config *entity.VoiceConfig) error
}

type ProfileRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
}
