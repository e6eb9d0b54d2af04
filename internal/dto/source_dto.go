package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSourceRequest struct {
	Content    string                 `json:"content" validate:"required"`
	SourceType string                 `json:"sourceType" validate:"required,oneof=note link tweet article_clip podcast_note voice_memo"`
	SourceUrl  *string                `json:"sourceUrl" validate:"omitempty,url"`
	BucketId   *uuid.UUID             `json:"bucketId"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type UpdateSourceRequest struct {
	Id         uuid.UUID
	Content    string                 `json:"content" validate:"required"`
	SourceType string                 `json:"sourceType" validate:"omitempty,oneof=note link tweet article_clip podcast_note voice_memo"`
	SourceUrl  *string                `json:"sourceUrl" validate:"omitempty,url"`
	BucketId   *uuid.UUID             `json:"bucketId"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type SourceResponse struct {
	Id         uuid.UUID              `json:"id"`
	Content    string                 `json:"content"`
	SourceType string                 `json:"sourceType"`
	SourceUrl  *string                `json:"sourceUrl"`
	BucketId   *uuid.UUID             `json:"bucketId"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	// EmbeddingPending is true until the background embedder stores a vector.
	EmbeddingPending bool       `json:"embeddingPending"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt"`
}
