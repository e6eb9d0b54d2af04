package dto

import (
	"github.com/google/uuid"
)

// SendMessageRequest starts one turn. Platform is required in draft mode when the
// conversation has none yet; that check needs the conversation and lives in the service.
type SendMessageRequest struct {
	ConversationId    uuid.UUID   `json:"conversationId" validate:"required"`
	Message           string      `json:"message" validate:"required"`
	Mode              string      `json:"mode" validate:"required,oneof=explore draft"`
	BucketId          *uuid.UUID  `json:"bucketId"`
	IncludeAllBuckets *bool       `json:"includeAllBuckets"`
	Platform          *string     `json:"platform" validate:"omitempty,oneof=linkedin twitter longform shortform"`
	ManualSourceIds   []uuid.UUID `json:"manualSourceIds" validate:"max=50"`
	VoiceMode         string      `json:"voiceMode" validate:"omitempty,oneof=personal compound"`
}

// AllBuckets defaults to true when the client omits the flag.
func (r *SendMessageRequest) AllBuckets() bool {
	if r.IncludeAllBuckets == nil {
		return true
	}
	return *r.IncludeAllBuckets
}
