package title

import (
	"context"
	"encoding/json"
	"fmt"

	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/events"
	"content-engine-be/pkg/metrics"
	"content-engine-be/pkg/rag/stream"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	Topic      = "conversation.title"
	moduleName = "TitleWorker"
	errBuffer  = 32
)

type TitleGenerator interface {
	Generate(ctx context.Context, firstUserMessage, firstAssistantResponse string) (string, error)
}

type TitleStore interface {
	UpdateTitle(ctx context.Context, conversationId uuid.UUID, title string) error
}

// Notifier pushes the new title to the user's live clients.
type Notifier interface {
	NotifyTitled(userId, conversationId uuid.UUID, title string)
}

// Queue runs title generation off the turn path. It implements stream.TitleSubmitter.
type Queue struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	generator  TitleGenerator
	store      TitleStore
	events     events.Publisher
	notifier   Notifier
	errs       chan error
	logger     logger.ILogger
	metrics    *metrics.Metrics
}

type payload struct {
	ConversationId         uuid.UUID `json:"conversationId"`
	UserId                 uuid.UUID `json:"userId"`
	FirstUserMessage       string    `json:"firstUserMessage"`
	FirstAssistantResponse string    `json:"firstAssistantResponse"`
}

func NewQueue(
	publisher message.Publisher,
	subscriber message.Subscriber,
	generator TitleGenerator,
	store TitleStore,
	eventPublisher events.Publisher,
	notifier Notifier,
	log logger.ILogger,
	m *metrics.Metrics,
) *Queue {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &Queue{
		publisher:  publisher,
		subscriber: subscriber,
		generator:  generator,
		store:      store,
		events:     eventPublisher,
		notifier:   notifier,
		errs:       make(chan error, errBuffer),
		logger:     log,
		metrics:    m,
	}
}

// Errors reports failed title jobs. Reading it is optional; overflow is dropped.
func (q *Queue) Errors() <-chan error {
	return q.errs
}

// Submit enqueues a title job. It never blocks on generation and never returns an error.
func (q *Queue) Submit(req stream.TitleRequest) {
	body, err := json.Marshal(payload{
		ConversationId:         req.ConversationId,
		UserId:                 req.UserId,
		FirstUserMessage:       req.FirstUserMessage,
		FirstAssistantResponse: req.FirstAssistantResponse,
	})
	if err != nil {
		q.fail(req.ConversationId, fmt.Errorf("encode title job: %w", err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := q.publisher.Publish(Topic, msg); err != nil {
		q.fail(req.ConversationId, fmt.Errorf("enqueue title job: %w", err))
	}
}

// Start subscribes to the title topic and processes jobs until ctx is done.
func (q *Queue) Start(ctx context.Context) error {
	messages, err := q.subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", Topic, err)
	}

	go func() {
		for msg := range messages {
			var job payload
			if err := json.Unmarshal(msg.Payload, &job); err != nil {
				q.fail(uuid.Nil, fmt.Errorf("decode title job: %w", err))
				msg.Ack()
				continue
			}

			// Title jobs are never retried.
			if err := q.Handle(ctx, job.request()); err != nil {
				q.fail(job.ConversationId, err)
			}
			msg.Ack()
		}
	}()

	q.logger.Info(moduleName, "Title worker started", map[string]interface{}{"topic": Topic})
	return nil
}

// Handle generates, stores and announces the title for one conversation.
func (q *Queue) Handle(ctx context.Context, req stream.TitleRequest) error {
	title, err := q.generator.Generate(ctx, req.FirstUserMessage, req.FirstAssistantResponse)
	if err != nil {
		return err
	}

	if err := q.store.UpdateTitle(ctx, req.ConversationId, title); err != nil {
		return fmt.Errorf("store title: %w", err)
	}

	if err := q.events.Publish(ctx, events.NewConversationTitled(req.UserId, req.ConversationId, title)); err != nil {
		q.logger.Warn(moduleName, "Failed to publish titled event", map[string]interface{}{
			"conversation_id": req.ConversationId,
			"error":           err.Error(),
		})
	}

	if q.notifier != nil {
		q.notifier.NotifyTitled(req.UserId, req.ConversationId, title)
	}

	q.metrics.TitleOutcomeInc("ok")
	q.logger.Info(moduleName, "Conversation titled", map[string]interface{}{
		"conversation_id": req.ConversationId,
		"title":           title,
	})
	return nil
}

func (q *Queue) fail(conversationId uuid.UUID, err error) {
	q.metrics.TitleOutcomeInc("error")
	q.logger.Warn(moduleName, "Title generation failed", map[string]interface{}{
		"conversation_id": conversationId,
		"error":           err.Error(),
	})
	select {
	case q.errs <- err:
	default:
	}
}

func (p payload) request() stream.TitleRequest {
	return stream.TitleRequest{
		ConversationId:         p.ConversationId,
		UserId:                 p.UserId,
		FirstUserMessage:       p.FirstUserMessage,
		FirstAssistantResponse: p.FirstAssistantResponse,
	}
}
