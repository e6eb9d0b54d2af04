package title

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/events"
	"content-engine-be/pkg/llm"
	"content-engine-be/pkg/rag/stream"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply  string
	err    error
	prompt string
	opts   *llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	return nil, errors.New("not used")
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompt = prompt
	f.opts = llm.ApplyOptions(llm.Options{}, opts...)
	return f.reply, f.err
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain", "Hiring Lessons From Year One", "Hiring Lessons From Year One"},
		{"quoted", "  \"Remote Team Rituals\"\n", "Remote Team Rituals"},
		{"single quoted", "'Pricing Experiments'", "Pricing Experiments"},
		{"empty", "   ", Fallback},
		{"only quotes", `""`, Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{reply: tt.reply}
			g := NewGenerator(provider, "small-model")

			got, err := g.Generate(context.Background(), "hello", "world")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "small-model", provider.opts.Model)
		})
	}
}

func TestGenerator_TruncatesResponse(t *testing.T) {
	provider := &fakeProvider{reply: "Title"}
	g := NewGenerator(provider, "")

	long := strings.Repeat("a", 600)
	_, err := g.Generate(context.Background(), "question", long)
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "User's message: question")
	assert.Contains(t, provider.prompt, strings.Repeat("a", 500)+"...")
	assert.NotContains(t, provider.prompt, strings.Repeat("a", 501))
	assert.Contains(t, provider.prompt, "Return ONLY the title")
}

func TestGenerator_ProviderError(t *testing.T) {
	g := NewGenerator(&fakeProvider{err: llm.ErrGeneration}, "")

	_, err := g.Generate(context.Background(), "a", "b")
	assert.ErrorIs(t, err, llm.ErrGeneration)
}

type stubGenerator struct {
	title string
	err   error
}

func (s stubGenerator) Generate(ctx context.Context, u, a string) (string, error) {
	return s.title, s.err
}

type recordingStore struct {
	mu     sync.Mutex
	titles map[uuid.UUID]string
	err    error
	done   chan struct{}
}

func newRecordingStore() *recordingStore {
	return &recordingStore{titles: map[uuid.UUID]string{}, done: make(chan struct{}, 1)}
}

func (s *recordingStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.titles[id] = title
	s.done <- struct{}{}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) NotifyTitled(userId, conversationId uuid.UUID, title string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, title)
}

func newTestQueue(gen TitleGenerator, store TitleStore, pub events.Publisher, notifier Notifier) *Queue {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	return NewQueue(pubsub, pubsub, gen, store, pub, notifier, logger.NewNopLogger(), nil)
}

func TestQueue_Handle(t *testing.T) {
	store := newRecordingStore()
	pub := &recordingPublisher{}
	notifier := &recordingNotifier{}
	q := newTestQueue(stubGenerator{title: "Launch Retro"}, store, pub, notifier)

	req := stream.TitleRequest{ConversationId: uuid.New(), UserId: uuid.New(), FirstUserMessage: "u", FirstAssistantResponse: "a"}
	require.NoError(t, q.Handle(context.Background(), req))

	assert.Equal(t, "Launch Retro", store.titles[req.ConversationId])
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeConversationTitled, pub.events[0].EventType())
	assert.Equal(t, []string{"Launch Retro"}, notifier.calls)
}

func TestQueue_HandleGeneratorFailure(t *testing.T) {
	store := newRecordingStore()
	notifier := &recordingNotifier{}
	q := newTestQueue(stubGenerator{err: llm.ErrGeneration}, store, nil, notifier)

	err := q.Handle(context.Background(), stream.TitleRequest{ConversationId: uuid.New()})
	assert.ErrorIs(t, err, llm.ErrGeneration)
	assert.Empty(t, store.titles)
	assert.Empty(t, notifier.calls)
}

func TestQueue_SubmitProcessesInBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newRecordingStore()
	q := newTestQueue(stubGenerator{title: "Async Title"}, store, nil, nil)
	require.NoError(t, q.Start(ctx))

	id := uuid.New()
	q.Submit(stream.TitleRequest{ConversationId: id, UserId: uuid.New(), FirstUserMessage: "u", FirstAssistantResponse: "a"})

	select {
	case <-store.done:
	case <-time.After(2 * time.Second):
		t.Fatal("title job was not processed")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, "Async Title", store.titles[id])
}

func TestQueue_FailureGoesToErrorChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newRecordingStore()
	store.err = errors.New("db down")
	q := newTestQueue(stubGenerator{title: "T"}, store, nil, nil)
	require.NoError(t, q.Start(ctx))

	q.Submit(stream.TitleRequest{ConversationId: uuid.New()})

	select {
	case err := <-q.Errors():
		assert.ErrorContains(t, err, "db down")
	case <-time.After(2 * time.Second):
		t.Fatal("expected error on Errors channel")
	}
}
