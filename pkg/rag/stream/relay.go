package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"content-engine-be/internal/entity"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/pkg/llm"
	"content-engine-be/pkg/metrics"
	"content-engine-be/pkg/rag/draft"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const moduleName = "StreamRelay"

const fallbackErrorMessage = "An unexpected error occurred"

type State int

const (
	StateIdle State = iota
	StateStreaming
	StateFinalizing
	StateDone
	StateFailed
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	}
	return "unknown"
}

// Persistence stores the outcome of a finished turn.
type Persistence interface {
	AppendMessage(ctx context.Context, message *entity.Message) error
	UpdateConversation(ctx context.Context, conversationId uuid.UUID, mode entity.ConversationMode, platform *entity.Platform, updatedAt time.Time) error
}

// TitleSubmitter queues title generation. Submit must not block and never reports failure.
type TitleSubmitter interface {
	Submit(req TitleRequest)
}

type TitleRequest struct {
	ConversationId         uuid.UUID
	UserId                 uuid.UUID
	FirstUserMessage       string
	FirstAssistantResponse string
}

// Turn is everything the relay needs for one exchange.
type Turn struct {
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Mode           entity.ConversationMode
	Platform       *entity.Platform
	Model          string
	SystemPrompt   string
	History        []llm.Message
	UserMessage    string
	Sources        []*entity.RetrievedSource
	// FirstExchange is true when the conversation had no messages before this turn.
	FirstExchange bool
}

// Outcome reports how a Run ended.
type Outcome struct {
	State     State
	MessageId *uuid.UUID
	Draft     *draft.Draft
	Err       error
}

type Config struct {
	PreviewLength int
}

type Relay struct {
	generator   llm.LLMProvider
	persistence Persistence
	titles      TitleSubmitter
	scanner     *draft.Scanner
	config      Config
	logger      logger.ILogger
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewRelay(generator llm.LLMProvider, persistence Persistence, titles TitleSubmitter, config Config, logger logger.ILogger, m *metrics.Metrics) *Relay {
	if config.PreviewLength <= 0 {
		config.PreviewLength = 200
	}
	return &Relay{
		generator:   generator,
		persistence: persistence,
		titles:      titles,
		scanner:     draft.NewScanner(),
		config:      config,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// run is the state of one Run call. The text buffer belongs to it alone.
type run struct {
	relay *Relay
	turn  Turn
	sink  Sink
	state State
	text  strings.Builder
}

// Run drives one turn to a terminal state. The sink sees an optional sources
// event, then text deltas, then exactly one done or error event. When ctx is
// cancelled or the sink goes away while streaming, Run stops without a
// terminal event and persists nothing.
func (r *Relay) Run(ctx context.Context, turn Turn, sink Sink) Outcome {
	ctx, span := otel.Tracer("stream").Start(ctx, "StreamRelay.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("conversation.id", turn.ConversationId.String()),
		attribute.String("conversation.mode", string(turn.Mode)),
	)

	rn := &run{relay: r, turn: turn, sink: sink, state: StateIdle}
	outcome := rn.execute(ctx)

	r.metrics.TurnOutcomeInc(string(turn.Mode), outcome.State.String())
	if outcome.Err != nil && outcome.State == StateFailed {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
	}
	return outcome
}

func (rn *run) execute(ctx context.Context) Outcome {
	rn.transition(StateStreaming)

	if rn.turn.Mode == entity.ConversationModeExplore && len(rn.turn.Sources) > 0 {
		err := rn.sink.Send(Event{Type: EventSources, Sources: Summarize(rn.turn.Sources, rn.relay.config.PreviewLength)})
		if err != nil {
			return rn.cancel(err)
		}
	}

	if err := rn.stream(ctx); err != nil {
		if isCancellation(ctx, err) {
			return rn.cancel(err)
		}
		return rn.fail(err)
	}

	return rn.finalize(ctx)
}

func (rn *run) stream(ctx context.Context) error {
	timer := rn.relay.metrics.GenerationTimer(string(rn.turn.Mode))
	defer timer.ObserveDuration()

	messages := make([]llm.Message, 0, len(rn.turn.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: rn.turn.SystemPrompt})
	messages = append(messages, rn.turn.History...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: rn.turn.UserMessage})

	var opts []llm.Option
	if rn.turn.Model != "" {
		opts = append(opts, llm.WithModel(rn.turn.Model))
	}

	upstream, err := rn.relay.generator.ChatStream(ctx, messages, opts...)
	if err != nil {
		return err
	}
	defer upstream.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		delta, err := upstream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if delta == "" {
			continue
		}

		rn.text.WriteString(delta)
		if err := rn.sink.Send(Event{Type: EventText, Text: delta}); err != nil {
			return &sinkError{err: err}
		}
	}
}

// finalize persists the exchange. It runs detached from ctx so a client that
// disconnects after the last delta still gets a consistent transcript.
func (rn *run) finalize(ctx context.Context) Outcome {
	rn.transition(StateFinalizing)
	ctx = context.WithoutCancel(ctx)

	fullText := rn.text.String()

	userMessage := &entity.Message{
		ConversationId: rn.turn.ConversationId,
		Role:           entity.MessageRoleUser,
		Content:        rn.turn.UserMessage,
	}
	if err := rn.relay.persistence.AppendMessage(ctx, userMessage); err != nil {
		return rn.fail(err)
	}

	var extracted *draft.Draft
	if rn.turn.Mode == entity.ConversationModeDraft {
		extracted = rn.relay.scanner.ExtractLast(fullText)
	}

	assistantMessage := &entity.Message{
		ConversationId: rn.turn.ConversationId,
		Role:           entity.MessageRoleAssistant,
		Content:        fullText,
	}
	if extracted != nil {
		content := extracted.Content
		assistantMessage.DraftContent = &content
	}
	if err := rn.relay.persistence.AppendMessage(ctx, assistantMessage); err != nil {
		rn.relay.logger.Error(moduleName, "Assistant message not persisted after user message", map[string]interface{}{
			"conversation_id": rn.turn.ConversationId.String(),
			"error":           err.Error(),
		})
		return rn.fail(err)
	}

	err := rn.relay.persistence.UpdateConversation(ctx, rn.turn.ConversationId, rn.turn.Mode, rn.turn.Platform, rn.relay.now())
	if err != nil {
		return rn.fail(err)
	}

	if rn.turn.FirstExchange && rn.relay.titles != nil {
		rn.relay.titles.Submit(TitleRequest{
			ConversationId:         rn.turn.ConversationId,
			UserId:                 rn.turn.UserId,
			FirstUserMessage:       rn.turn.UserMessage,
			FirstAssistantResponse: fullText,
		})
	}

	messageId := assistantMessage.Id
	if err := rn.sink.Send(Event{Type: EventDone, MessageId: &messageId, Draft: extracted}); err != nil {
		// Everything is stored; the client can reload the transcript.
		rn.relay.logger.Warn(moduleName, "Done event not delivered", map[string]interface{}{
			"conversation_id": rn.turn.ConversationId.String(),
			"error":           err.Error(),
		})
	}

	rn.transition(StateDone)
	return Outcome{State: StateDone, MessageId: &messageId, Draft: extracted}
}

func (rn *run) fail(err error) Outcome {
	rn.transition(StateFailed)

	message := err.Error()
	if message == "" {
		message = fallbackErrorMessage
	}
	rn.relay.logger.Warn(moduleName, "Turn failed", map[string]interface{}{
		"conversation_id": rn.turn.ConversationId.String(),
		"error":           message,
	})

	if sendErr := rn.sink.Send(Event{Type: EventError, Error: message}); sendErr != nil {
		rn.relay.logger.Debug(moduleName, "Error event not delivered", map[string]interface{}{"error": sendErr.Error()})
	}
	return Outcome{State: StateFailed, Err: err}
}

func (rn *run) cancel(err error) Outcome {
	rn.transition(StateCanceled)
	rn.relay.logger.Info(moduleName, "Turn canceled by client", map[string]interface{}{
		"conversation_id": rn.turn.ConversationId.String(),
		"received_chars":  rn.text.Len(),
	})
	return Outcome{State: StateCanceled, Err: err}
}

func (rn *run) transition(to State) {
	rn.relay.logger.Debug(moduleName, "State change", map[string]interface{}{
		"conversation_id": rn.turn.ConversationId.String(),
		"from":            rn.state.String(),
		"to":              to.String(),
	})
	rn.state = to
}

type sinkError struct {
	err error
}

func (e *sinkError) Error() string { return "sink: " + e.err.Error() }
func (e *sinkError) Unwrap() error { return e.err }

func isCancellation(ctx context.Context, err error) bool {
	var se *sinkError
	if errors.As(err, &se) {
		return true
	}
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled)
}
