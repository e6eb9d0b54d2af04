package dto

import (
	"time"

	"content-engine-be/pkg/rag/draft"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Mode              string     `json:"mode" validate:"required,oneof=explore draft"`
	BucketId          *uuid.UUID `json:"bucketId"`
	IncludeAllBuckets *bool      `json:"includeAllBuckets"`
	Platform          *string    `json:"platform" validate:"omitempty,oneof=linkedin twitter longform shortform"`
}

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type MessageResponse struct {
	Id   uuid.UUID `json:"id"`
	Role string    `json:"role"`
	// Content is the stored text; DisplayContent has draft blocks removed.
	Content        string       `json:"content"`
	DisplayContent string       `json:"displayContent"`
	Draft          *draft.Draft `json:"draft"`
	CreatedAt      time.Time    `json:"createdAt"`
}

type ConversationMessagesResponse struct {
	ConversationId uuid.UUID         `json:"conversationId"`
	Title          *string           `json:"title"`
	Mode           string            `json:"mode"`
	Platform       *string           `json:"platform"`
	Messages       []MessageResponse `json:"messages"`
	// TurnIncomplete is set when the last message is the user's, so the turn may be retried.
	TurnIncomplete bool `json:"turnIncomplete"`
}
