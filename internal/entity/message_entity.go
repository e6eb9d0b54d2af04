package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is immutable once written. DraftContent is only set on assistant
// messages produced in draft mode that carried an extractable block.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	DraftContent   *string
	CreatedAt      time.Time
}
