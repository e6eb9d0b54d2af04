package handler

import (
	"net/http/httptest"
	"testing"

	"content-engine-be/internal/pkg/logger"
	internalWS "content-engine-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWs_Handshake(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-secret")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uuid.NewString()}).
		SignedString([]byte("ws-secret"))
	require.NoError(t, err)

	h := NewNotificationHandler(internalWS.NewHub(nil, logger.NewNopLogger()), logger.NewNopLogger())
	app := fiber.New()
	h.RegisterRoutes(app)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing token", "/ws", fiber.StatusUnauthorized},
		{"bad token", "/ws?token=garbage", fiber.StatusUnauthorized},
		{"plain http with valid token", "/ws?token=" + signed, fiber.StatusUpgradeRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
