package mapper

import (
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/model"
)

type BucketMapper struct{}

func NewBucketMapper() *BucketMapper {
	return &BucketMapper{}
}

func (m *BucketMapper) ToEntity(b *model.Bucket) *entity.Bucket {
	if b == nil {
		return nil
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	return &entity.Bucket{
		Id:          b.Id,
		UserId:      b.UserId,
		Name:        b.Name,
		Description: b.Description,
		Color:       b.Color,
		SortOrder:   b.SortOrder,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *BucketMapper) ToModel(b *entity.Bucket) *model.Bucket {
	if b == nil {
		return nil
	}

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	return &model.Bucket{
		Id:          b.Id,
		UserId:      b.UserId,
		Name:        b.Name,
		Description: b.Description,
		Color:       b.Color,
		SortOrder:   b.SortOrder,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
