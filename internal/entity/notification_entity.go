package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a push-only message for a user's live clients. It is not stored.
type Notification struct {
	Id         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	EntityType string                 `json:"entityType,omitempty"`
	EntityId   *uuid.UUID             `json:"entityId,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}
