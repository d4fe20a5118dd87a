// ABOUTME: OpenAI Chat Completions implementation of the poem Generator.
// ABOUTME: Supports custom base URLs for OpenAI-compatible providers.
package poem

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator generates poems through the Chat Completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator. An empty baseURL uses the OpenAI
// API; compatible providers can be reached by passing theirs.
func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Generate composes a poem for the wish in one round trip.
func (g *OpenAIGenerator) Generate(ctx context.Context, wishText string) (string, error) {
	if strings.TrimSpace(wishText) == "" {
		return "", ErrEmptyWish
	}

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage("Wish: " + wishText),
		},
		MaxCompletionTokens: openai.Int(512),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("generate poem: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyPoem
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyPoem
	}
	return text, nil
}
