package service

import (
	"context"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ConversationPersistence writes turn results. It satisfies stream.Persistence
// and title.TitleStore.
type ConversationPersistence struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationPersistence(uowFactory unitofwork.RepositoryFactory) *ConversationPersistence {
	return &ConversationPersistence{uowFactory: uowFactory}
}

func (p *ConversationPersistence) AppendMessage(ctx context.Context, message *entity.Message) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	return p.uowFactory.NewUnitOfWork(ctx).MessageRepository().Create(ctx, message)
}

func (p *ConversationPersistence) UpdateConversation(ctx context.Context, conversationId uuid.UUID, mode entity.ConversationMode, platform *entity.Platform, updatedAt time.Time) error {
	return p.uowFactory.NewUnitOfWork(ctx).ConversationRepository().UpdateTurnMetadata(ctx, conversationId, mode, platform, updatedAt)
}

func (p *ConversationPersistence) UpdateTitle(ctx context.Context, conversationId uuid.UUID, title string) error {
	return p.uowFactory.NewUnitOfWork(ctx).ConversationRepository().UpdateTitle(ctx, conversationId, title)
}
