package factory

import (
	"fmt"

	"content-engine-be/pkg/llm"
	"content-engine-be/pkg/llm/ollama"
	"content-engine-be/pkg/llm/openai"
)

type ProviderConfig struct {
	Type      string // "openai" or "ollama"
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Type {
	case "openai", "":
		return openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}
}
