package contract

import (
	"context"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	UpdateTurnMetadata(ctx context.Context, id uuid.UUID, mode entity.ConversationMode, platform *entity.Platform, updatedAt time.Time) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	// FindByConversation returns the transcript oldest first.
	FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
