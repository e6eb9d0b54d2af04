package contract

import (
	"context"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SourceRepository interface {
	Create(ctx context.Context, source *entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error)
	FindMissingEmbeddings(ctx context.Context, limit int) ([]*entity.Source, error)

	// Retrieval lanes. All of them are owner-scoped.
	FetchByIds(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) ([]*entity.Source, error)
	FetchByBucket(ctx context.Context, userId uuid.UUID, bucketId uuid.UUID) ([]*entity.Source, error)
	// SearchSimilar returns at most topK sources whose cosine similarity is >= threshold, best first.
	SearchSimilar(ctx context.Context, userId uuid.UUID, embedding []float32, threshold float64, topK int) ([]*entity.ScoredSource, error)
}
