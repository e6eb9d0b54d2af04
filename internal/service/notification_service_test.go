package service

import (
	"context"
	"sync"
	"testing"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu   sync.Mutex
	sent map[uuid.UUID][]entity.Notification
}

func (d *recordingDelivery) Send(userID uuid.UUID, n entity.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sent == nil {
		d.sent = map[uuid.UUID][]entity.Notification{}
	}
	d.sent[userID] = append(d.sent[userID], n)
}

func TestNotificationService_NotifyTitled(t *testing.T) {
	delivery := &recordingDelivery{}
	svc := NewNotificationService(nil, delivery, logger.NewNopLogger())

	userId, conversationId := uuid.New(), uuid.New()
	svc.NotifyTitled(userId, conversationId, "Founder Stories")

	require.Len(t, delivery.sent[userId], 1)
	n := delivery.sent[userId][0]
	assert.Equal(t, events.TypeConversationTitled, n.Type)
	assert.Equal(t, "Founder Stories", n.Message)
	assert.Equal(t, conversationId, *n.EntityId)
}

func TestNotificationService_HandleEvent(t *testing.T) {
	delivery := &recordingDelivery{}
	svc := NewNotificationService(nil, delivery, logger.NewNopLogger())

	userId, sourceId := uuid.New(), uuid.New()
	err := svc.HandleEvent(context.Background(), events.NewSourceEmbedded(userId, sourceId, 1536))
	require.NoError(t, err)

	require.Len(t, delivery.sent[userId], 1)
	assert.Equal(t, events.TypeSourceEmbedded, delivery.sent[userId][0].Type)
	assert.Equal(t, sourceId, *delivery.sent[userId][0].EntityId)
}

func TestNotificationService_HandleEventIgnoresUnknownOrAnonymous(t *testing.T) {
	delivery := &recordingDelivery{}
	svc := NewNotificationService(nil, delivery, logger.NewNopLogger())

	require.NoError(t, svc.HandleEvent(context.Background(), events.BaseEvent{Type: "other", Data: map[string]interface{}{"user_id": uuid.NewString()}}))
	require.NoError(t, svc.HandleEvent(context.Background(), events.BaseEvent{Type: events.TypeSourceEmbedded, Data: map[string]interface{}{}}))

	assert.Empty(t, delivery.sent)
}
