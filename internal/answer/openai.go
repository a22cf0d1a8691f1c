package answer

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/embedding"
)

// DefaultModel answers questions when no chat model is configured.
const DefaultModel = openai.ChatModelGPT4o

// OpenAIGenerator implements Generator with an OpenAI chat model, reusing the
// client that serves embeddings.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator for the given chat model.
func NewOpenAIGenerator(client *embedding.Client, model string) *OpenAIGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGenerator{client: client.Client(), model: model}
}

// Complete runs one chat completion for the prompt.
func (g *OpenAIGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
