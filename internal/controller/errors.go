package controller

import (
	"errors"

	"content-engine-be/internal/service"
	"content-engine-be/pkg/turnlock"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// toHTTPError maps service errors onto status codes. Unknown errors pass through as 500s.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrSourceNotFound),
		errors.Is(err, service.ErrBucketNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlatformRequired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, turnlock.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID")
	}
	return userId, nil
}

func pathId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}
