package mapper

import (
	"encoding/json"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SourceMapper struct{}

func NewSourceMapper() *SourceMapper {
	return &SourceMapper{}
}

func (m *SourceMapper) ToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if s.Embedding != nil {
		embedding = s.Embedding.Slice()
	}

	var metadata map[string]interface{}
	if len(s.Metadata) > 0 {
		// Metadata is free-form; a broken blob is treated as absent.
		_ = json.Unmarshal(s.Metadata, &metadata)
	}

	return &entity.Source{
		Id:         s.Id,
		UserId:     s.UserId,
		BucketId:   s.BucketId,
		Content:    s.Content,
		SourceType: entity.SourceType(s.SourceType),
		SourceUrl:  s.SourceUrl,
		Metadata:   metadata,
		Embedding:  embedding,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  s.DeletedAt.Valid,
	}
}

func (m *SourceMapper) ToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(s.Embedding) > 0 {
		v := pgvector.NewVector(s.Embedding)
		embedding = &v
	}

	var metadata datatypes.JSON
	if s.Metadata != nil {
		if raw, err := json.Marshal(s.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Source{
		Id:         s.Id,
		UserId:     s.UserId,
		BucketId:   s.BucketId,
		Content:    s.Content,
		SourceType: string(s.SourceType),
		SourceUrl:  s.SourceUrl,
		Metadata:   metadata,
		Embedding:  embedding,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}
