package service

import (
	"context"
	"encoding/json"
	"fmt"

	"content-engine-be/internal/dto"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/specification"
	"content-engine-be/internal/repository/unitofwork"
	"content-engine-be/pkg/embedding"
	"content-engine-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const EmbedSourceTopic = "source.embed"

type IConsumerService interface {
	Consume(ctx context.Context) error
	// EmbedSource computes and stores the vector for one source.
	EmbedSource(ctx context.Context, sourceId uuid.UUID) error
	// Backfill embeds sources that have no vector yet, batchSize at a time, and
	// returns how many were embedded.
	Backfill(ctx context.Context, batchSize int) (int, error)
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    events.Publisher
	charLimit         int
	logger            logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher events.Publisher,
	charLimit int,
	log logger.ILogger,
) IConsumerService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		charLimit:         charLimit,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	cs.logger.Info("ConsumerService", "Embedding consumer started", map[string]interface{}{"topic": cs.topicName})
	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSourceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are never retried
		return
	}

	if err := cs.EmbedSource(ctx, payload.SourceId); err != nil {
		cs.logger.Warn("ConsumerService", "Embedding failed, will retry", map[string]interface{}{
			"source_id": payload.SourceId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

func (cs *consumerService) EmbedSource(ctx context.Context, sourceId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	source, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: sourceId})
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	if source == nil {
		// Deleted before the job ran.
		cs.logger.Info("ConsumerService", "Source gone, skipping embedding", map[string]interface{}{"source_id": sourceId})
		return nil
	}

	vector, err := cs.embeddingProvider.Embed(ctx, embedding.Truncate(source.Content, cs.charLimit))
	if err != nil {
		return err
	}

	if err := uow.SourceRepository().UpdateEmbedding(ctx, source.Id, vector); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}

	if err := cs.eventPublisher.Publish(ctx, events.NewSourceEmbedded(source.UserId, source.Id, len(vector))); err != nil {
		cs.logger.Warn("ConsumerService", "Failed to publish source.embedded", map[string]interface{}{"error": err.Error()})
	}

	cs.logger.Info("ConsumerService", "Source embedded", map[string]interface{}{
		"source_id":  source.Id,
		"dimensions": len(vector),
	})
	return nil
}

func (cs *consumerService) Backfill(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	embedded := 0
	failed := map[uuid.UUID]bool{}

	for {
		if err := ctx.Err(); err != nil {
			return embedded, err
		}

		batch, err := uow.SourceRepository().FindMissingEmbeddings(ctx, batchSize+len(failed))
		if err != nil {
			return embedded, fmt.Errorf("list sources without embedding: %w", err)
		}

		progressed := false
		for _, source := range batch {
			if failed[source.Id] {
				continue
			}
			if err := cs.EmbedSource(ctx, source.Id); err != nil {
				failed[source.Id] = true
				cs.logger.Warn("ConsumerService", "Backfill skipped source", map[string]interface{}{
					"source_id": source.Id,
					"error":     err.Error(),
				})
				continue
			}
			embedded++
			progressed = true
		}

		if !progressed {
			return embedded, nil
		}
	}
}
