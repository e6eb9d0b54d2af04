package service

import (
	"context"
	"time"

	"content-engine-be/internal/dto"
	"content-engine-be/internal/entity"
	"content-engine-be/internal/repository/specification"
	"content-engine-be/internal/repository/unitofwork"
	"content-engine-be/pkg/rag/draft"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	Messages(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.ConversationMessagesResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{uowFactory: uowFactory}
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.BucketId != nil {
		bucket, err := uow.BucketRepository().FindOne(ctx,
			specification.ByID{ID: *req.BucketId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if bucket == nil {
			return nil, ErrBucketNotFound
		}
	}

	conversation := entity.Conversation{
		Id:                uuid.New(),
		UserId:            userId,
		Mode:              entity.ConversationMode(req.Mode),
		BucketId:          req.BucketId,
		IncludeAllBuckets: lo.FromPtrOr(req.IncludeAllBuckets, true),
		CreatedAt:         time.Now(),
	}
	if req.Platform != nil {
		p := entity.Platform(*req.Platform)
		conversation.Platform = &p
	}

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}
	return &dto.CreateConversationResponse{Id: conversation.Id}, nil
}

// Messages returns the transcript for display. A trailing user message means the
// previous turn failed before its reply was stored, and the client may retry it.
func (s *conversationService) Messages(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.ConversationMessagesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := uow.MessageRepository().FindByConversation(ctx, conversationId)
	if err != nil {
		return nil, err
	}

	res := &dto.ConversationMessagesResponse{
		ConversationId: conversation.Id,
		Title:          conversation.Title,
		Mode:           string(conversation.Mode),
		Messages:       lo.Map(messages, func(m *entity.Message, _ int) dto.MessageResponse { return toMessageResponse(m) }),
	}
	if conversation.Platform != nil {
		res.Platform = lo.ToPtr(string(*conversation.Platform))
	}
	if n := len(messages); n > 0 {
		res.TurnIncomplete = messages[n-1].Role == entity.MessageRoleUser
	}
	return res, nil
}

func toMessageResponse(m *entity.Message) dto.MessageResponse {
	res := dto.MessageResponse{
		Id:             m.Id,
		Role:           string(m.Role),
		Content:        m.Content,
		DisplayContent: m.Content,
		CreatedAt:      m.CreatedAt,
	}
	if m.Role == entity.MessageRoleAssistant {
		res.DisplayContent = draft.Strip(m.Content)
		res.Draft = draft.ExtractLast(m.Content)
	}
	return res
}
