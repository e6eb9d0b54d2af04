package implementation

import (
	"context"
	"errors"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/mapper"
	"content-engine-be/internal/model"
	"content-engine-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoiceConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoiceMapper
}

func NewVoiceConfigRepository(db *gorm.DB) contract.VoiceConfigRepository {
	return &VoiceConfigRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoiceMapper(),
	}
}

func (r *VoiceConfigRepositoryImpl) findOne(ctx context.Context, query *gorm.DB) (*entity.VoiceConfig, error) {
	var m model.VoiceConfig
	if err := query.WithContext(ctx).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VoiceConfigRepositoryImpl) FindCompany(ctx context.Context) (*entity.VoiceConfig, error) {
	return r.findOne(ctx, r.db.Where("type = ?", string(entity.VoiceConfigCompany)))
}

func (r *VoiceConfigRepositoryImpl) FindPlatform(ctx context.Context, platform entity.Platform) (*entity.VoiceConfig, error) {
	return r.findOne(ctx, r.db.
		Where("type = ?", string(entity.VoiceConfigPlatform)).
		Where("platform = ?", string(platform)))
}

// Upsert keys on (type, platform). The company row has a NULL platform, which
// a unique index does not collapse, so it is resolved by lookup first.
func (r *VoiceConfigRepositoryImpl) Upsert(ctx context.Context, config *entity.VoiceConfig) error {
	var existing *entity.VoiceConfig
	var err error
	if config.Type == entity.VoiceConfigCompany {
		existing, err = r.FindCompany(ctx)
	} else if config.Platform != nil {
		existing, err = r.FindPlatform(ctx, *config.Platform)
	}
	if err != nil {
		return err
	}

	if existing != nil {
		config.Id = existing.Id
	} else if config.Id == uuid.Nil {
		config.Id = uuid.New()
	}

	m := r.mapper.ToModel(config)
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rules", "updated_by", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoiceMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoiceMapper(),
	}
}

func (r *ProfileRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var m model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProfileToEntity(&m), nil
}

func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, profile *entity.Profile) error {
	m := r.mapper.ProfileToModel(profile)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "personal_voice", "explore_model", "draft_model", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*profile = *r.mapper.ProfileToEntity(m)
	return nil
}
