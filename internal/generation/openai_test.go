package generation

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatAPI struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeChatAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestOpenAIGeneratorMapsParams(t *testing.T) {
	api := &fakeChatAPI{resp: chatResponse("fine answer")}
	g := &OpenAIGenerator{api: api, model: "local-llm"}

	p := Params{MaxTokens: 128, Temperature: 0.3, TopP: 0.9, TopK: 40, RepetitionPenalty: 1.1, Stop: []string{"Human:"}}
	out, err := g.Generate(context.Background(), "Question: hi\n\nAnswer:", p)
	require.NoError(t, err)
	assert.Equal(t, "fine answer", out)

	assert.Equal(t, "local-llm", api.lastReq.Model)
	assert.Equal(t, 128, api.lastReq.MaxTokens)
	assert.InDelta(t, 0.3, api.lastReq.Temperature, 1e-6)
	assert.Equal(t, []string{"Human:"}, api.lastReq.Stop)
	require.Len(t, api.lastReq.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, api.lastReq.Messages[0].Role)
}

func TestOpenAIGeneratorStripsAssistantPrefix(t *testing.T) {
	api := &fakeChatAPI{resp: chatResponse("  Assistant: The rate is 7%.  ")}
	g := &OpenAIGenerator{api: api, model: "m"}

	out, err := g.Generate(context.Background(), "p", Params{})
	require.NoError(t, err)
	assert.Equal(t, "The rate is 7%.", out)
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	g := &OpenAIGenerator{api: &fakeChatAPI{err: errors.New("connection refused")}, model: "m"}
	_, err := g.Generate(context.Background(), "p", Params{})
	assert.Error(t, err)

	g = &OpenAIGenerator{api: &fakeChatAPI{}, model: "m"}
	_, err = g.Generate(context.Background(), "p", Params{})
	assert.ErrorContains(t, err, "empty choices")

	g = &OpenAIGenerator{api: &fakeChatAPI{resp: chatResponse("   ")}, model: "m"}
	_, err = g.Generate(context.Background(), "p", Params{})
	assert.ErrorContains(t, err, "blank completion")
}
