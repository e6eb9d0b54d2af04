package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"content-engine-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s llm.Stream) (string, error) {
	t.Helper()
	defer s.Close()
	var out string
	for {
		delta, err := s.Recv()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out += delta
	}
}

func TestChatStream_ReadsNDJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		assert.Equal(t, "llama3", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"Hel"},"done":false}`+"\n")
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"lo"},"done":false}`+"\n\n")
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":""},"done":true}`+"\n")
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	s, err := p.ChatStream(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "be brief"},
		{Role: llm.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)

	out, err := collect(t, s)
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}

func TestChatStream_TruncatedStreamFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":{"content":"partial"},"done":false}`+"\n")
	}))
	defer srv.Close()

	s, err := NewOllamaProvider(srv.URL, "m").ChatStream(context.Background(), nil)
	require.NoError(t, err)

	out, err := collect(t, s)
	assert.Equal(t, "partial", out)
	assert.ErrorIs(t, err, llm.ErrGeneration)
}

func TestChatStream_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "m").ChatStream(context.Background(), nil)
	assert.ErrorIs(t, err, llm.ErrGeneration)
}

func TestChat_NonStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "title-model", req.Model)
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"A Title"},"done":true}`)
	}))
	defer srv.Close()

	out, err := NewOllamaProvider(srv.URL, "m").Generate(context.Background(), "title please", llm.WithModel("title-model"))
	require.NoError(t, err)
	assert.Equal(t, "A Title", out)
}
