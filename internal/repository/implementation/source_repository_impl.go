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
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SourceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SourceMapper
}

func NewSourceRepository(db *gorm.DB) contract.SourceRepository {
	return &SourceRepositoryImpl{
		db:     db,
		mapper: mapper.NewSourceMapper(),
	}
}

func (r *SourceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SourceRepositoryImpl) toEntities(models []*model.Source) []*entity.Source {
	entities := make([]*entity.Source, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities
}

func (r *SourceRepositoryImpl) Create(ctx context.Context, source *entity.Source) error {
	m := r.mapper.ToModel(source)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*source = *r.mapper.ToEntity(m)
	return nil
}

func (r *SourceRepositoryImpl) Update(ctx context.Context, source *entity.Source) error {
	m := r.mapper.ToModel(source)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*source = *r.mapper.ToEntity(m)
	return nil
}

func (r *SourceRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&model.Source{}).
		Where("id = ?", id).
		UpdateColumn("embedding", pgvector.NewVector(embedding)).Error
}

func (r *SourceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error) {
	var m model.Source
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SourceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	var models []*model.Source
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *SourceRepositoryImpl) FindMissingEmbeddings(ctx context.Context, limit int) ([]*entity.Source, error) {
	return r.FindAll(ctx,
		specification.MissingEmbedding{},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit},
	)
}

func (r *SourceRepositoryImpl) FetchByIds(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) ([]*entity.Source, error) {
	if len(ids) == 0 {
		return []*entity.Source{}, nil
	}
	return r.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByIDs{IDs: ids},
	)
}

func (r *SourceRepositoryImpl) FetchByBucket(ctx context.Context, userId uuid.UUID, bucketId uuid.UUID) ([]*entity.Source, error) {
	return r.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.InBucket{BucketID: bucketId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

// SearchSimilar computes cosine similarity as 1 - (embedding <=> query) and filters by threshold in SQL.
func (r *SourceRepositoryImpl) SearchSimilar(ctx context.Context, userId uuid.UUID, embedding []float32, threshold float64, topK int) ([]*entity.ScoredSource, error) {
	if topK <= 0 {
		topK = 10
	}

	type result struct {
		model.Source
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("sources").
		Select("sources.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("user_id = ?", userId).
		Where("deleted_at IS NULL").
		Where("embedding IS NOT NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredSource, len(results))
	for i := range results {
		scored[i] = &entity.ScoredSource{
			Source:     r.mapper.ToEntity(&results[i].Source),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
