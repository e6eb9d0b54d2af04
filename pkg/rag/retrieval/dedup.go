package retrieval

import (
	"content-engine-be/internal/entity"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Deduplicate makes the three lanes disjoint. A source stays in the highest
// priority lane it appears in: pinned, then bucket, then semantic. Order within
// each lane is preserved and repeats inside a lane are dropped.
func Deduplicate(pinned, bucket []*entity.Source, semantic []*entity.ScoredSource) ([]*entity.Source, []*entity.Source, []*entity.ScoredSource) {
	seen := make(map[uuid.UUID]struct{}, len(pinned)+len(bucket)+len(semantic))

	keep := func(id uuid.UUID) bool {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	}

	pinnedOut := lo.Filter(pinned, func(s *entity.Source, _ int) bool {
		return s != nil && keep(s.Id)
	})
	bucketOut := lo.Filter(bucket, func(s *entity.Source, _ int) bool {
		return s != nil && keep(s.Id)
	})
	semanticOut := lo.Filter(semantic, func(s *entity.ScoredSource, _ int) bool {
		return s != nil && s.Source != nil && keep(s.Source.Id)
	})

	return pinnedOut, bucketOut, semanticOut
}
