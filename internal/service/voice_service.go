package service

import (
	"context"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/memory"
	"content-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// VoiceRules are the rule lists a turn's prompt is built from. Nil means "none configured".
type VoiceRules struct {
	Personal []string
	Company  []string
	Platform []string
}

type IVoiceService interface {
	// Resolve never fails: a voice that cannot be loaded is treated as unset.
	Resolve(ctx context.Context, profile *entity.Profile, mode entity.VoiceMode, platform *entity.Platform) *VoiceRules
	SetCompany(ctx context.Context, rules []string, updatedBy *uuid.UUID) error
	SetPlatform(ctx context.Context, platform entity.Platform, rules []string, updatedBy *uuid.UUID) error
}

type voiceService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.VoiceCache
	logger     logger.ILogger
}

func NewVoiceService(uowFactory unitofwork.RepositoryFactory, cache *memory.VoiceCache, log logger.ILogger) IVoiceService {
	return &voiceService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
	}
}

func (s *voiceService) Resolve(ctx context.Context, profile *entity.Profile, mode entity.VoiceMode, platform *entity.Platform) *VoiceRules {
	rules := &VoiceRules{}

	// Compound voice writes as the company only.
	if mode != entity.VoiceModeCompound && profile != nil {
		rules.Personal = profile.PersonalVoice
	}

	if company := s.company(ctx); company != nil {
		rules.Company = company.Rules
	}

	if platform != nil {
		if p := s.platform(ctx, *platform); p != nil {
			rules.Platform = p.Rules
		}
	}

	return rules
}

func (s *voiceService) company(ctx context.Context) *entity.VoiceConfig {
	if config, ok := s.cache.Company(); ok {
		return config
	}

	config, err := s.uowFactory.NewUnitOfWork(ctx).VoiceConfigRepository().FindCompany(ctx)
	if err != nil {
		s.logger.Warn("VoiceService", "Failed to load company voice", map[string]interface{}{"error": err.Error()})
		return nil
	}
	s.cache.SetCompany(config)
	return config
}

func (s *voiceService) platform(ctx context.Context, platform entity.Platform) *entity.VoiceConfig {
	if config, ok := s.cache.Platform(platform); ok {
		return config
	}

	config, err := s.uowFactory.NewUnitOfWork(ctx).VoiceConfigRepository().FindPlatform(ctx, platform)
	if err != nil {
		s.logger.Warn("VoiceService", "Failed to load platform voice", map[string]interface{}{
			"platform": platform,
			"error":    err.Error(),
		})
		return nil
	}
	s.cache.SetPlatform(platform, config)
	return config
}

func (s *voiceService) SetCompany(ctx context.Context, rules []string, updatedBy *uuid.UUID) error {
	return s.upsert(ctx, &entity.VoiceConfig{
		Type:      entity.VoiceConfigCompany,
		Rules:     rules,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now(),
	})
}

func (s *voiceService) SetPlatform(ctx context.Context, platform entity.Platform, rules []string, updatedBy *uuid.UUID) error {
	return s.upsert(ctx, &entity.VoiceConfig{
		Type:      entity.VoiceConfigPlatform,
		Platform:  &platform,
		Rules:     rules,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now(),
	})
}

func (s *voiceService) upsert(ctx context.Context, config *entity.VoiceConfig) error {
	if err := s.uowFactory.NewUnitOfWork(ctx).VoiceConfigRepository().Upsert(ctx, config); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
