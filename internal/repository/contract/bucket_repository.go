package contract

import (
	"context"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BucketRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bucket, error)
	// ResolveNames maps bucket id to display name in one query. Unknown ids are absent.
	ResolveNames(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
