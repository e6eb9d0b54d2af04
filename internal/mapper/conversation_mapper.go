package mapper

import (
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var platform *entity.Platform
	if c.Platform != nil {
		p := entity.Platform(*c.Platform)
		platform = &p
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conversation{
		Id:                c.Id,
		UserId:            c.UserId,
		Mode:              entity.ConversationMode(c.Mode),
		BucketId:          c.BucketId,
		IncludeAllBuckets: c.IncludeAllBuckets,
		Platform:          platform,
		Title:             c.Title,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var platform *string
	if c.Platform != nil {
		p := string(*c.Platform)
		platform = &p
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conversation{
		Id:                c.Id,
		UserId:            c.UserId,
		Mode:              string(c.Mode),
		BucketId:          c.BucketId,
		IncludeAllBuckets: c.IncludeAllBuckets,
		Platform:          platform,
		Title:             c.Title,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           entity.MessageRole(msg.Role),
		Content:        msg.Content,
		DraftContent:   msg.DraftContent,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           string(msg.Role),
		Content:        msg.Content,
		DraftContent:   msg.DraftContent,
		CreatedAt:      msg.CreatedAt,
	}
}
