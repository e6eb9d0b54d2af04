package implementation

import (
	"context"
	"errors"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/mapper"
	"content-engine-be/internal/model"
	"content-engine-be/internal/repository/contract"
	"content-engine-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BucketRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BucketMapper
}

func NewBucketRepository(db *gorm.DB) contract.BucketRepository {
	return &BucketRepositoryImpl{
		db:     db,
		mapper: mapper.NewBucketMapper(),
	}
}

func (r *BucketRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bucket, error) {
	var m model.Bucket
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BucketRepositoryImpl) ResolveNames(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		Id   uuid.UUID
		Name string
	}
	err := r.db.WithContext(ctx).
		Model(&model.Bucket{}).
		Select("id, name").
		Where("user_id = ?", userId).
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.Id] = row.Name
	}
	return names, nil
}
