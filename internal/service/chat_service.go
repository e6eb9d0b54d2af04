package service

import (
	"context"

	"content-engine-be/internal/dto"
	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/specification"
	"content-engine-be/internal/repository/unitofwork"
	"content-engine-be/pkg/events"
	"content-engine-be/pkg/llm"
	"content-engine-be/pkg/rag/prompt"
	"content-engine-be/pkg/rag/retrieval"
	"content-engine-be/pkg/rag/stream"
	"content-engine-be/pkg/turnlock"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	// Prepare validates the request and takes the conversation's turn lock.
	// The returned Turn must be streamed or released.
	Prepare(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*Turn, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, req retrieval.Request) *retrieval.Result
}

type Relay interface {
	Run(ctx context.Context, turn stream.Turn, sink stream.Sink) stream.Outcome
}

type ChatConfig struct {
	ExploreModel string
	DraftModel   string
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	locker         turnlock.Locker
	voices         IVoiceService
	retriever      Retriever
	relay          Relay
	eventPublisher events.Publisher
	config         ChatConfig
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	locker turnlock.Locker,
	voices IVoiceService,
	retriever Retriever,
	relay Relay,
	eventPublisher events.Publisher,
	config ChatConfig,
	log logger.ILogger,
) IChatService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &chatService{
		uowFactory:     uowFactory,
		locker:         locker,
		voices:         voices,
		retriever:      retriever,
		relay:          relay,
		eventPublisher: eventPublisher,
		config:         config,
		logger:         log,
	}
}

// Turn is a validated, locked turn waiting to be streamed.
type Turn struct {
	svc          *chatService
	release      func()
	userId       uuid.UUID
	req          *dto.SendMessageRequest
	mode         entity.ConversationMode
	platform     *entity.Platform
	conversation *entity.Conversation
	profile      *entity.Profile
	voice        *VoiceRules
	history      []*entity.Message
}

func (s *chatService) Prepare(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: req.ConversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	mode := entity.ConversationMode(req.Mode)
	platform := conversation.Platform
	if req.Platform != nil {
		p := entity.Platform(*req.Platform)
		platform = &p
	}
	if mode == entity.ConversationModeDraft && platform == nil {
		return nil, ErrPlatformRequired
	}

	release, err := s.locker.Acquire(ctx, turnlock.ConversationKey(conversation.Id))
	if err != nil {
		return nil, err
	}

	turn, err := s.load(ctx, uow, userId, req, mode, platform, conversation)
	if err != nil {
		release()
		return nil, err
	}
	turn.release = release
	return turn, nil
}

func (s *chatService) load(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	req *dto.SendMessageRequest,
	mode entity.ConversationMode,
	platform *entity.Platform,
	conversation *entity.Conversation,
) (*Turn, error) {
	profile, err := uow.ProfileRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	voiceMode := entity.VoiceMode(req.VoiceMode)
	if voiceMode == "" {
		voiceMode = entity.VoiceModePersonal
	}

	history, err := uow.MessageRepository().FindByConversation(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}

	return &Turn{
		svc:          s,
		userId:       userId,
		req:          req,
		mode:         mode,
		platform:     platform,
		conversation: conversation,
		profile:      profile,
		voice:        s.voices.Resolve(ctx, profile, voiceMode, platform),
		history:      history,
	}, nil
}

// Release frees the turn lock without streaming. Safe to call more than once.
func (t *Turn) Release() {
	if t.release != nil {
		t.release()
	}
}

// Stream runs retrieval, prompt assembly and the relay, then releases the lock.
func (t *Turn) Stream(ctx context.Context, sink stream.Sink) stream.Outcome {
	defer t.Release()

	relayTurn := stream.Turn{
		ConversationId: t.conversation.Id,
		UserId:         t.userId,
		Mode:           t.mode,
		Platform:       t.platform,
		History:        toLLMHistory(t.history),
		UserMessage:    t.req.Message,
		FirstExchange:  len(t.history) == 0,
	}

	switch t.mode {
	case entity.ConversationModeDraft:
		relayTurn.Model = lo.Ternary(t.profile.DraftModel != "", t.profile.DraftModel, t.svc.config.DraftModel)
		relayTurn.SystemPrompt = prompt.BuildDraftPrompt(prompt.DraftInput{
			UserName:      t.profile.DisplayName,
			PersonalVoice: t.voice.Personal,
			CompanyVoice:  t.voice.Company,
			PlatformVoice: t.voice.Platform,
			Platform:      *t.platform,
		})
	default:
		result := t.svc.retriever.Retrieve(ctx, retrieval.Request{
			UserId:            t.userId,
			Message:           t.req.Message,
			BucketId:          lo.Ternary(t.req.BucketId != nil, t.req.BucketId, t.conversation.BucketId),
			IncludeAllBuckets: t.req.AllBuckets(),
			ManualSourceIds:   t.req.ManualSourceIds,
		})
		relayTurn.Model = lo.Ternary(t.profile.ExploreModel != "", t.profile.ExploreModel, t.svc.config.ExploreModel)
		relayTurn.Sources = result.All()
		relayTurn.SystemPrompt = prompt.BuildExplorePrompt(prompt.ExploreInput{
			UserName:      t.profile.DisplayName,
			PersonalVoice: t.voice.Personal,
			CompanyVoice:  t.voice.Company,
			BucketName:    result.BucketName,
			Pinned:        result.Pinned,
			Bucket:        result.Bucket,
			Semantic:      result.Semantic,
		})
	}

	outcome := t.svc.relay.Run(ctx, relayTurn, sink)

	if outcome.State == stream.StateDone && outcome.MessageId != nil {
		event := events.NewTurnCompleted(t.userId, t.conversation.Id, *outcome.MessageId, string(t.mode), outcome.Draft != nil)
		if err := t.svc.eventPublisher.Publish(context.WithoutCancel(ctx), event); err != nil {
			t.svc.logger.Warn("ChatService", "Failed to publish turn_completed", map[string]interface{}{
				"conversation_id": t.conversation.Id,
				"error":           err.Error(),
			})
		}
	}

	return outcome
}

func toLLMHistory(messages []*entity.Message) []llm.Message {
	return lo.Map(messages, func(m *entity.Message, _ int) llm.Message {
		return llm.Message{Role: string(m.Role), Content: m.Content}
	})
}
