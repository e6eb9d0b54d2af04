package integration

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"content-engine-be/pkg/llm"
	"content-engine-be/pkg/llm/ollama"

	"github.com/stretchr/testify/require"
)

// Runs against a local Ollama when OLLAMA_TEST_MODEL names a pulled model.
func TestOllamaChatStream(t *testing.T) {
	modelName := os.Getenv("OLLAMA_TEST_MODEL")
	if modelName == "" {
		t.Skip("Skipping integration test: OLLAMA_TEST_MODEL not set")
	}
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, modelName)
	stream, err := provider.ChatStream(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: "Reply with the single word: ready"},
	})
	require.NoError(t, err)
	defer stream.Close()

	var sb strings.Builder
	for {
		delta, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		sb.WriteString(delta)
	}
	require.NotEmpty(t, strings.TrimSpace(sb.String()))
}
