package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"content-engine-be/pkg/llm"

	"github.com/samber/lo"
	goopenai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client    *goopenai.Client
	ModelName string
	MaxTokens int
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(token, baseURL, modelName string, maxTokens int) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client:    goopenai.NewClientWithConfig(cfg),
		ModelName: modelName,
		MaxTokens: maxTokens,
	}
}

func (p *OpenAIProvider) buildRequest(history []llm.Message, opts ...llm.Option) goopenai.ChatCompletionRequest {
	options := llm.ApplyOptions(llm.Options{Model: p.ModelName, MaxTokens: p.MaxTokens}, opts...)

	messages := lo.Map(history, func(item llm.Message, _ int) goopenai.ChatCompletionMessage {
		return goopenai.ChatCompletionMessage{
			Role:    item.Role,
			Content: item.Content,
		}
	})

	req := goopenai.ChatCompletionRequest{
		Model:     options.Model,
		Messages:  messages,
		MaxTokens: options.MaxTokens,
	}
	if options.Temperature > 0 {
		req.Temperature = float32(options.Temperature)
	}
	return req
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(history, opts...))
	if err != nil {
		return "", fmt.Errorf("%w: openai completion: %v", llm.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", llm.ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ChatStream(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	req := p.buildRequest(history, opts...)
	req.Stream = true

	resp, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai stream: %v", llm.ErrGeneration, err)
	}
	return &stream{resp: resp}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

type stream struct {
	resp *goopenai.ChatCompletionStream
}

// Recv skips chunks without content (role headers, finish markers).
func (s *stream) Recv() (string, error) {
	for {
		msg, err := s.resp.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("%w: openai stream: %v", llm.ErrGeneration, err)
		}
		if len(msg.Choices) == 0 {
			continue
		}
		if delta := msg.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *stream) Close() error {
	return s.resp.Close()
}
