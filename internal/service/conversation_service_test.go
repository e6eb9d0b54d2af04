package service

import (
	"context"
	"testing"
	"time"

	"content-engine-be/internal/dto"
	"content-engine-be/internal/entity"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConversation(s *store, userId uuid.UUID) *entity.Conversation {
	c := &entity.Conversation{Id: uuid.New(), UserId: userId, Mode: entity.ConversationModeDraft, CreatedAt: time.Now()}
	s.conversations[c.Id] = c
	return c
}

func addMessage(s *store, conversationId uuid.UUID, role entity.MessageRole, content string, at time.Time) {
	s.messages = append(s.messages, &entity.Message{
		Id: uuid.New(), ConversationId: conversationId, Role: role, Content: content, CreatedAt: at,
	})
}

func TestConversationService_MessagesStripsDrafts(t *testing.T) {
	s := newStore()
	userId := uuid.New()
	c := seedConversation(s, userId)
	base := time.Now()
	addMessage(s, c.Id, entity.MessageRoleUser, "Write it", base)
	addMessage(s, c.Id, entity.MessageRoleAssistant,
		"Here you go. <draft platform=\"linkedin\" title=\"Hiring\">Hire slow.</draft> Thoughts?", base.Add(time.Second))

	res, err := NewConversationService(s).Messages(context.Background(), userId, c.Id)
	require.NoError(t, err)

	require.Len(t, res.Messages, 2)
	assert.False(t, res.TurnIncomplete)

	user := res.Messages[0]
	assert.Equal(t, "Write it", user.DisplayContent)
	assert.Nil(t, user.Draft)

	assistant := res.Messages[1]
	assert.Equal(t, "Here you go.  Thoughts?", assistant.DisplayContent)
	require.NotNil(t, assistant.Draft)
	assert.Equal(t, "Hiring", assistant.Draft.Title)
	assert.Equal(t, "Hire slow.", assistant.Draft.Content)
}

func TestConversationService_TrailingUserMessageIsIncomplete(t *testing.T) {
	s := newStore()
	userId := uuid.New()
	c := seedConversation(s, userId)
	base := time.Now()
	addMessage(s, c.Id, entity.MessageRoleUser, "first", base)
	addMessage(s, c.Id, entity.MessageRoleAssistant, "reply", base.Add(time.Second))
	addMessage(s, c.Id, entity.MessageRoleUser, "second, never answered", base.Add(2*time.Second))

	res, err := NewConversationService(s).Messages(context.Background(), userId, c.Id)
	require.NoError(t, err)
	assert.True(t, res.TurnIncomplete)
}

func TestConversationService_EmptyConversation(t *testing.T) {
	s := newStore()
	userId := uuid.New()
	c := seedConversation(s, userId)

	res, err := NewConversationService(s).Messages(context.Background(), userId, c.Id)
	require.NoError(t, err)
	assert.Empty(t, res.Messages)
	assert.False(t, res.TurnIncomplete)
}

func TestConversationService_MessagesNotOwned(t *testing.T) {
	s := newStore()
	c := seedConversation(s, uuid.New())

	_, err := NewConversationService(s).Messages(context.Background(), uuid.New(), c.Id)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationService_Create(t *testing.T) {
	s := newStore()
	userId := uuid.New()
	svc := NewConversationService(s)

	res, err := svc.Create(context.Background(), userId, &dto.CreateConversationRequest{
		Mode:     "draft",
		Platform: lo.ToPtr("twitter"),
	})
	require.NoError(t, err)

	stored := s.conversations[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, entity.ConversationModeDraft, stored.Mode)
	assert.Equal(t, entity.PlatformTwitter, *stored.Platform)
	assert.True(t, stored.IncludeAllBuckets)

	_, err = svc.Create(context.Background(), userId, &dto.CreateConversationRequest{
		Mode:     "explore",
		BucketId: lo.ToPtr(uuid.New()),
	})
	assert.ErrorIs(t, err, ErrBucketNotFound)
}
