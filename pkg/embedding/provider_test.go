package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))

	long := strings.Repeat("x", 8001)
	out := Truncate(long, 8000)
	assert.Equal(t, 8003, len(out))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestError_UnwrapsToSentinel(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := wrap("openai", cause)

	assert.ErrorIs(t, err, ErrEmbedding)
	assert.ErrorIs(t, err, cause)

	var embErr *Error
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, "openai", embErr.Provider)
}

func TestOllamaProvider_EmbedNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var body ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nomic-embed-text", body.Model)
		_, _ = w.Write([]byte(`{"embedding":[3,4]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	vec, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)

	var mag float64
	for _, v := range vec {
		mag += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(mag), 1e-6)
}

func TestOllamaProvider_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "m").Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("ollama", "", "", "")
	require.NoError(t, err)
	assert.IsType(t, &OllamaProvider{}, p)

	p, err = NewProvider("openai", "", "sk-test", "")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIProvider{}, p)

	_, err = NewProvider("gemini", "", "", "")
	assert.Error(t, err)
}
