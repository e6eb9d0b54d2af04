package service

import (
	"context"
	"fmt"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/events"
	pktNats "content-engine-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification entity.Notification)
}

const notifierDurable = "content-engine-notifier"

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

// NewNotificationService accepts a nil subscriber; bus events are then not forwarded.
func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start forwards source.embedded events from the bus to the owner's clients.
func (s *NotificationService) Start(ctx context.Context) {
	if s.subscriber == nil {
		s.logger.Info("NotificationService", "No event bus, notification forwarding disabled", nil)
		return
	}
	subject := pktNats.Subject(events.TypeSourceEmbedded)
	if err := s.subscriber.Subscribe(ctx, subject, notifierDurable, s.HandleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"subject": subject})
}

// NotifyTitled tells the owner's clients a conversation got its title.
func (s *NotificationService) NotifyTitled(userId, conversationId uuid.UUID, title string) {
	s.deliver(userId, entity.Notification{
		Id:         uuid.New(),
		Type:       events.TypeConversationTitled,
		Title:      "Conversation titled",
		Message:    title,
		EntityType: "conversation",
		EntityId:   &conversationId,
		Metadata:   map[string]interface{}{"title": title},
		CreatedAt:  time.Now(),
	})
}

func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	userId, err := uuid.Parse(fmt.Sprint(payload["user_id"]))
	if err != nil {
		s.logger.Warn("NotificationService", "Event without user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	var entityId *uuid.UUID
	if id, err := uuid.Parse(fmt.Sprint(payload["entity_id"])); err == nil {
		entityId = &id
	}
	entityType, _ := payload["entity_type"].(string)

	notification := entity.Notification{
		Id:         uuid.New(),
		Type:       event.EventType(),
		EntityType: entityType,
		EntityId:   entityId,
		Metadata:   payload,
		CreatedAt:  event.Timestamp(),
	}

	switch event.EventType() {
	case events.TypeSourceEmbedded:
		notification.Title = "Source ready"
		notification.Message = "Your source is now searchable."
	case events.TypeConversationTitled:
		notification.Title = "Conversation titled"
		notification.Message, _ = payload["title"].(string)
	default:
		return nil
	}

	s.deliver(userId, notification)
	return nil
}

func (s *NotificationService) deliver(userId uuid.UUID, notification entity.Notification) {
	if s.delivery == nil {
		return
	}
	s.delivery.Send(userId, notification)
}
