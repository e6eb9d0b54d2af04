package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeTurnCompleted      = "conversation.turn_completed"
	TypeConversationTitled = "conversation.titled"
	TypeSourceEmbedded     = "source.embedded"
)

func NewTurnCompleted(userId, conversationId, messageId uuid.UUID, mode string, hasDraft bool) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"user_id":         userId.String(),
			"conversation_id": conversationId.String(),
			"message_id":      messageId.String(),
			"mode":            mode,
			"has_draft":       hasDraft,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationTitled(userId, conversationId uuid.UUID, title string) BaseEvent {
	return BaseEvent{
		Type: TypeConversationTitled,
		Data: map[string]interface{}{
			"user_id":         userId.String(),
			"conversation_id": conversationId.String(),
			"entity_type":     "conversation",
			"entity_id":       conversationId.String(),
			"title":           title,
		},
		OccurredAt: time.Now(),
	}
}

func NewSourceEmbedded(userId, sourceId uuid.UUID, dimensions int) BaseEvent {
	return BaseEvent{
		Type: TypeSourceEmbedded,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"source_id":   sourceId.String(),
			"entity_type": "source",
			"entity_id":   sourceId.String(),
			"dimensions":  dimensions,
		},
		OccurredAt: time.Now(),
	}
}
