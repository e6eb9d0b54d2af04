package title

import (
	"context"
	"fmt"
	"strings"

	"content-engine-be/pkg/llm"
)

const (
	Fallback        = "Untitled Conversation"
	responseExcerpt = 500
)

// Generator asks a small model for a short conversation title.
type Generator struct {
	provider llm.LLMProvider
	model    string
}

func NewGenerator(provider llm.LLMProvider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

func (g *Generator) Generate(ctx context.Context, firstUserMessage, firstAssistantResponse string) (string, error) {
	var opts []llm.Option
	if g.model != "" {
		opts = append(opts, llm.WithModel(g.model))
	}
	opts = append(opts, llm.WithMaxTokens(50), llm.WithTemperature(0.3))

	raw, err := g.provider.Generate(ctx, buildPrompt(firstUserMessage, firstAssistantResponse), opts...)
	if err != nil {
		return "", fmt.Errorf("title generation: %w", err)
	}
	return clean(raw), nil
}

func buildPrompt(firstUserMessage, firstAssistantResponse string) string {
	excerpt := firstAssistantResponse
	if r := []rune(excerpt); len(r) > responseExcerpt {
		excerpt = string(r[:responseExcerpt]) + "..."
	}

	var prompt strings.Builder
	prompt.WriteString("Generate a concise 3-6 word title for this conversation.\n\n")
	prompt.WriteString(fmt.Sprintf("User's message: %s\n\n", firstUserMessage))
	prompt.WriteString(fmt.Sprintf("Assistant's response: %s\n\n", excerpt))
	prompt.WriteString("Return ONLY the title, nothing else. No quotes, no punctuation unless part of the title.")
	return prompt.String()
}

func clean(raw string) string {
	title := strings.Trim(strings.TrimSpace(raw), `"'`)
	title = strings.TrimSpace(title)
	if title == "" {
		return Fallback
	}
	return title
}
