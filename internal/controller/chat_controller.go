package controller

import (
	"bufio"
	"context"

	"content-engine-be/internal/dto"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/pkg/serverutils"
	"content-engine-be/internal/service"
	"content-engine-be/pkg/rag/stream"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Send)
}

// Send validates and locks the turn synchronously, so request errors still get
// a JSON status. Once streaming starts the status is 200 and failures arrive
// as the terminal error event.
func (c *chatController) Send(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	turn, err := c.chatService.Prepare(ctx.UserContext(), userId, &req)
	if err != nil {
		return toHTTPError(err)
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber ctx is recycled once the handler returns; the writer below
	// must only use values captured here.
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx.UserContext()))
	log := c.logger
	conversationId := req.ConversationId

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		outcome := turn.Stream(streamCtx, stream.NewSSEWriter(w))
		log.Info("ChatController", "Turn finished", map[string]interface{}{
			"conversation_id": conversationId,
			"state":           outcome.State.String(),
		})
	})
	return nil
}
