package retrieval

import (
	"context"
	"fmt"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/embedding"
	"content-engine-be/pkg/metrics"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const moduleName = "Retriever"

const (
	lanePinned   = "pinned"
	laneBucket   = "bucket"
	laneSemantic = "semantic"
	laneEmbed    = "embedding"
	laneNames    = "bucket_names"
)

// SourceStore is the read side of the source repository used by retrieval.
type SourceStore interface {
	FetchByIds(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) ([]*entity.Source, error)
	FetchByBucket(ctx context.Context, userId uuid.UUID, bucketId uuid.UUID) ([]*entity.Source, error)
	SearchSimilar(ctx context.Context, userId uuid.UUID, embedding []float32, threshold float64, topK int) ([]*entity.ScoredSource, error)
}

type BucketNameResolver interface {
	ResolveNames(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type Config struct {
	SimilarityThreshold float64
	TopK                int
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.5,
		TopK:                10,
	}
}

type Request struct {
	UserId            uuid.UUID
	Message           string
	BucketId          *uuid.UUID
	IncludeAllBuckets bool
	ManualSourceIds   []uuid.UUID
}

// Result holds the three lanes after dedup, in priority order.
type Result struct {
	Pinned   []*entity.RetrievedSource
	Bucket   []*entity.RetrievedSource
	Semantic []*entity.RetrievedSource
	// BucketName is the active bucket's display name, nil when unset or unresolved.
	BucketName *string
}

// All returns pinned, then bucket, then semantic entries.
func (r *Result) All() []*entity.RetrievedSource {
	all := make([]*entity.RetrievedSource, 0, r.Len())
	all = append(all, r.Pinned...)
	all = append(all, r.Bucket...)
	return append(all, r.Semantic...)
}

func (r *Result) Len() int {
	return len(r.Pinned) + len(r.Bucket) + len(r.Semantic)
}

type Retriever struct {
	sources  SourceStore
	buckets  BucketNameResolver
	embedder embedding.EmbeddingProvider
	config   Config
	logger   logger.ILogger
	metrics  *metrics.Metrics
}

func NewRetriever(sources SourceStore, buckets BucketNameResolver, embedder embedding.EmbeddingProvider, config Config, logger logger.ILogger, m *metrics.Metrics) *Retriever {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	return &Retriever{
		sources:  sources,
		buckets:  buckets,
		embedder: embedder,
		config:   config,
		logger:   logger,
		metrics:  m,
	}
}

// Retrieve runs the pinned, bucket and semantic lanes concurrently and never
// fails: a lane that errors is logged and contributes nothing.
func (r *Retriever) Retrieve(ctx context.Context, req Request) *Result {
	ctx, span := otel.Tracer("retrieval").Start(ctx, "Retriever.Retrieve")
	defer span.End()

	var (
		pinned   []*entity.Source
		bucket   []*entity.Source
		semantic []*entity.ScoredSource
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pinned = r.fetchPinned(gctx, req)
		return nil
	})
	g.Go(func() error {
		bucket = r.fetchBucket(gctx, req)
		return nil
	})
	g.Go(func() error {
		semantic = r.searchSemantic(gctx, req)
		return nil
	})

	// Lanes swallow their own errors, so Wait only joins.
	_ = g.Wait()

	pinned, bucket, semantic = Deduplicate(pinned, bucket, semantic)
	semantic = r.applyThreshold(semantic)

	names := r.resolveNames(ctx, req, pinned, semantic)

	result := &Result{
		Pinned:   make([]*entity.RetrievedSource, 0, len(pinned)),
		Bucket:   make([]*entity.RetrievedSource, 0, len(bucket)),
		Semantic: make([]*entity.RetrievedSource, 0, len(semantic)),
	}
	if req.BucketId != nil {
		if name, ok := names[*req.BucketId]; ok {
			result.BucketName = lo.ToPtr(name)
		}
	}

	for _, s := range pinned {
		result.Pinned = append(result.Pinned, &entity.RetrievedSource{
			Source:     s,
			Method:     entity.RetrievalPinned,
			BucketName: lookupName(names, s.BucketId),
		})
	}
	for _, s := range bucket {
		result.Bucket = append(result.Bucket, &entity.RetrievedSource{
			Source:     s,
			Method:     entity.RetrievalBucket,
			BucketName: result.BucketName,
		})
	}
	for _, s := range semantic {
		result.Semantic = append(result.Semantic, &entity.RetrievedSource{
			Source:     s.Source,
			Method:     entity.RetrievalSemantic,
			BucketName: lookupName(names, s.Source.BucketId),
			Similarity: lo.ToPtr(s.Similarity),
		})
	}

	span.SetAttributes(
		attribute.Int("retrieval.pinned", len(result.Pinned)),
		attribute.Int("retrieval.bucket", len(result.Bucket)),
		attribute.Int("retrieval.semantic", len(result.Semantic)),
	)
	r.metrics.RetrievedSourcesObserve(lanePinned, len(result.Pinned))
	r.metrics.RetrievedSourcesObserve(laneBucket, len(result.Bucket))
	r.metrics.RetrievedSourcesObserve(laneSemantic, len(result.Semantic))

	return result
}

func (r *Retriever) fetchPinned(ctx context.Context, req Request) []*entity.Source {
	if len(req.ManualSourceIds) == 0 {
		return nil
	}
	sources, err := r.sources.FetchByIds(ctx, req.UserId, req.ManualSourceIds)
	if err != nil {
		r.degrade(lanePinned, err, map[string]interface{}{"ids": len(req.ManualSourceIds)})
		return nil
	}
	// Keep the order the user pinned them in.
	byId := lo.KeyBy(sources, func(s *entity.Source) uuid.UUID { return s.Id })
	return lo.FilterMap(lo.Uniq(req.ManualSourceIds), func(id uuid.UUID, _ int) (*entity.Source, bool) {
		s, ok := byId[id]
		return s, ok
	})
}

func (r *Retriever) fetchBucket(ctx context.Context, req Request) []*entity.Source {
	if req.BucketId == nil {
		return nil
	}
	sources, err := r.sources.FetchByBucket(ctx, req.UserId, *req.BucketId)
	if err != nil {
		r.degrade(laneBucket, err, map[string]interface{}{"bucket_id": req.BucketId.String()})
		return nil
	}
	return sources
}

// searchSemantic embeds the message and searches across all buckets. An
// embedding failure disables only this lane.
func (r *Retriever) searchSemantic(ctx context.Context, req Request) []*entity.ScoredSource {
	if !req.IncludeAllBuckets || r.embedder == nil {
		return nil
	}

	vector, err := r.embedder.Embed(ctx, req.Message)
	if err != nil {
		r.degrade(laneEmbed, err, nil)
		return nil
	}
	if len(vector) == 0 {
		r.degrade(laneEmbed, fmt.Errorf("empty embedding"), nil)
		return nil
	}

	results, err := r.sources.SearchSimilar(ctx, req.UserId, vector, r.config.SimilarityThreshold, r.config.TopK)
	if err != nil {
		r.degrade(laneSemantic, err, nil)
		return nil
	}
	return results
}

// applyThreshold re-checks what the store returned so the lane never holds a
// hit under the threshold or more than TopK hits.
func (r *Retriever) applyThreshold(hits []*entity.ScoredSource) []*entity.ScoredSource {
	kept := lo.Filter(hits, func(h *entity.ScoredSource, _ int) bool {
		return h != nil && h.Source != nil && h.Similarity >= r.config.SimilarityThreshold
	})
	if len(kept) > r.config.TopK {
		kept = kept[:r.config.TopK]
	}
	return kept
}

// resolveNames looks up the active bucket and every bucket referenced by a
// pinned or semantic source in one call.
func (r *Retriever) resolveNames(ctx context.Context, req Request, pinned []*entity.Source, semantic []*entity.ScoredSource) map[uuid.UUID]string {
	ids := make([]uuid.UUID, 0, len(pinned)+len(semantic)+1)
	if req.BucketId != nil {
		ids = append(ids, *req.BucketId)
	}
	for _, s := range pinned {
		if s.BucketId != nil {
			ids = append(ids, *s.BucketId)
		}
	}
	for _, s := range semantic {
		if s.Source.BucketId != nil {
			ids = append(ids, *s.Source.BucketId)
		}
	}
	ids = lo.Uniq(ids)

	if len(ids) == 0 || r.buckets == nil {
		return map[uuid.UUID]string{}
	}

	names, err := r.buckets.ResolveNames(ctx, req.UserId, ids)
	if err != nil {
		r.degrade(laneNames, err, map[string]interface{}{"ids": len(ids)})
		return map[uuid.UUID]string{}
	}
	return names
}

func (r *Retriever) degrade(lane string, err error, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["lane"] = lane
	details["error"] = err.Error()
	r.logger.Warn(moduleName, "Retrieval lane degraded", details)
	r.metrics.LaneDegradedInc(lane)
}

func lookupName(names map[uuid.UUID]string, bucketId *uuid.UUID) *string {
	if bucketId == nil {
		return nil
	}
	if name, ok := names[*bucketId]; ok {
		return lo.ToPtr(name)
	}
	return nil
}
