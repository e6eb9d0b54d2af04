package embedding

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const openAIName = "openai"

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(token, baseURL, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, wrap(openAIName, err)
	}
	if len(resp.Data) == 0 {
		return nil, wrap(openAIName, errors.New("empty embedding response"))
	}
	return resp.Data[0].Embedding, nil
}
