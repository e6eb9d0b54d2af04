package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewConversationTitled(t *testing.T) {
	userId := uuid.New()
	conversationId := uuid.New()

	e := NewConversationTitled(userId, conversationId, "Hiring Lessons")

	assert.Equal(t, TypeConversationTitled, e.EventType())
	assert.Equal(t, userId.String(), e.Payload()["user_id"])
	assert.Equal(t, conversationId.String(), e.Payload()["entity_id"])
	assert.Equal(t, "Hiring Lessons", e.Payload()["title"])
	assert.False(t, e.Timestamp().IsZero())
}

func TestNewTurnCompleted(t *testing.T) {
	e := NewTurnCompleted(uuid.New(), uuid.New(), uuid.New(), "draft", true)

	assert.Equal(t, TypeTurnCompleted, e.EventType())
	assert.Equal(t, "draft", e.Payload()["mode"])
	assert.Equal(t, true, e.Payload()["has_draft"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewSourceEmbedded(uuid.New(), uuid.New(), 1536)))
}
