package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// EmbeddingProvider turns text into a fixed-length vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrEmbedding is the sentinel every provider failure unwraps to.
var ErrEmbedding = errors.New("embedding failed")

type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s embedding: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrEmbedding, e.Err}
}

func wrap(provider string, err error) error {
	return &Error{Provider: provider, Err: err}
}

// Truncate caps the input at limit characters and marks the cut with "...".
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}

func NewProvider(providerType, model, apiKey, baseURL string) (EmbeddingProvider, error) {
	switch strings.ToLower(providerType) {
	case "openai", "":
		return NewOpenAIProvider(apiKey, baseURL, model), nil
	case "ollama":
		return NewOllamaProvider(baseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
