package generation

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nexacred/ragengine/internal/config"
)

// ChatCompleter is the slice of the OpenAI client the generator needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator talks to an OpenAI-compatible chat completion
// endpoint. It is the full-capability tier.
type OpenAIGenerator struct {
	api   ChatCompleter
	model string
}

func NewOpenAIGenerator(cfg config.GenerationConfig) *OpenAIGenerator {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{
		api:   openai.NewClientWithConfig(c),
		model: cfg.Model,
	}
}

func (g *OpenAIGenerator) Name() string { return "full" }

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
		Stop:        p.Stop,
	}
	resp, err := g.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generation: empty choices in completion response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	text = strings.TrimSpace(strings.TrimPrefix(text, "Assistant:"))
	if text == "" {
		return "", errors.New("generation: blank completion")
	}
	return text, nil
}
