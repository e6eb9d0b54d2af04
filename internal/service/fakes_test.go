package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/contract"
	"content-engine-be/internal/repository/specification"
	"content-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// store is an in-memory stand-in for the database shared by all fake repositories.
type store struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entity.Conversation
	messages      []*entity.Message
	profiles      map[uuid.UUID]*entity.Profile
	sources       map[uuid.UUID]*entity.Source
	buckets       map[uuid.UUID]*entity.Bucket
	company       *entity.VoiceConfig
	platforms     map[entity.Platform]*entity.VoiceConfig
	voiceReads    int
	embeddings    map[uuid.UUID][]float32
}

func newStore() *store {
	return &store{
		conversations: map[uuid.UUID]*entity.Conversation{},
		profiles:      map[uuid.UUID]*entity.Profile{},
		sources:       map[uuid.UUID]*entity.Source{},
		buckets:       map[uuid.UUID]*entity.Bucket{},
		platforms:     map[entity.Platform]*entity.VoiceConfig{},
		embeddings:    map[uuid.UUID][]float32{},
	}
}

func (s *store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{s: s}
}

type fakeUnitOfWork struct{ s *store }

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) SourceRepository() contract.SourceRepository { return &fakeSourceRepo{u.s} }
func (u *fakeUnitOfWork) BucketRepository() contract.BucketRepository { return &fakeBucketRepo{u.s} }
func (u *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{u.s}
}
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository { return &fakeMessageRepo{u.s} }
func (u *fakeUnitOfWork) VoiceConfigRepository() contract.VoiceConfigRepository {
	return &fakeVoiceRepo{u.s}
}
func (u *fakeUnitOfWork) ProfileRepository() contract.ProfileRepository { return &fakeProfileRepo{u.s} }

// matches understands the specifications the services use.
func matches(id, owner uuid.UUID, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if sp.ID != id {
				return false
			}
		case specification.UserOwnedBy:
			if sp.UserID != owner {
				return false
			}
		}
	}
	return true
}

type fakeConversationRepo struct{ s *store }

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.conversations[c.Id] = &cp
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conversations {
		if matches(c.Id, c.UserId, specs) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) UpdateTurnMetadata(ctx context.Context, id uuid.UUID, mode entity.ConversationMode, platform *entity.Platform, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.conversations[id]; ok {
		c.Mode = mode
		c.Platform = platform
		c.UpdatedAt = &updatedAt
	}
	return nil
}

func (r *fakeConversationRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.conversations[id]; ok {
		c.Title = &title
	}
	return nil
}

type fakeMessageRepo struct{ s *store }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	return nil, nil
}

func (r *fakeMessageRepo) FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.s.messages {
		if m.ConversationId == conversationId {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeProfileRepo struct{ s *store }

func (r *fakeProfileRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.profiles[id], nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[p.Id] = p
	return nil
}

type fakeVoiceRepo struct{ s *store }

func (r *fakeVoiceRepo) FindCompany(ctx context.Context) (*entity.VoiceConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.voiceReads++
	return r.s.company, nil
}

func (r *fakeVoiceRepo) FindPlatform(ctx context.Context, platform entity.Platform) (*entity.VoiceConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.voiceReads++
	return r.s.platforms[platform], nil
}

func (r *fakeVoiceRepo) Upsert(ctx context.Context, c *entity.VoiceConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.Type == entity.VoiceConfigCompany {
		r.s.company = c
	} else if c.Platform != nil {
		r.s.platforms[*c.Platform] = c
	}
	return nil
}

type fakeSourceRepo struct{ s *store }

func (r *fakeSourceRepo) Create(ctx context.Context, src *entity.Source) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *src
	r.s.sources[src.Id] = &cp
	return nil
}

func (r *fakeSourceRepo) Update(ctx context.Context, src *entity.Source) error {
	return r.Create(ctx, src)
}

func (r *fakeSourceRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, vector []float32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.embeddings[id] = vector
	if src, ok := r.s.sources[id]; ok {
		src.Embedding = vector
	}
	return nil
}

func (r *fakeSourceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, src := range r.s.sources {
		if matches(src.Id, src.UserId, specs) {
			cp := *src
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSourceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	return nil, nil
}

func (r *fakeSourceRepo) FindMissingEmbeddings(ctx context.Context, limit int) ([]*entity.Source, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Source
	for _, src := range r.s.sources {
		if src.Embedding == nil {
			cp := *src
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSourceRepo) FetchByIds(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) ([]*entity.Source, error) {
	return nil, nil
}

func (r *fakeSourceRepo) FetchByBucket(ctx context.Context, userId uuid.UUID, bucketId uuid.UUID) ([]*entity.Source, error) {
	return nil, nil
}

func (r *fakeSourceRepo) SearchSimilar(ctx context.Context, userId uuid.UUID, vector []float32, threshold float64, topK int) ([]*entity.ScoredSource, error) {
	return nil, nil
}

type fakeBucketRepo struct{ s *store }

func (r *fakeBucketRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bucket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.buckets {
		if matches(b.Id, b.UserId, specs) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBucketRepo) ResolveNames(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	return map[uuid.UUID]string{}, nil
}
