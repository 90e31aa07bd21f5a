package assistant

import (
	"context"
	"fmt"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
)

// DeepSeekProvider implements Provider against the DeepSeek chat API.
type DeepSeekProvider struct {
	client deepseek.Client
	model  string
}

// NewDeepSeekProvider creates a provider for the given model.
func NewDeepSeekProvider(apiKey, model string) (*DeepSeekProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepseek API key is required")
	}
	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create deepseek client: %w", err)
	}
	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepSeekProvider{client: client, model: model}, nil
}

// Complete sends a single non-streaming chat completion.
func (p *DeepSeekProvider) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]*request.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, &request.Message{Role: "system", Content: req.System})
	}
	messages = append(messages, &request.Message{Role: "user", Content: req.Prompt})

	var temp *float32
	if req.Temperature > 0 {
		t := req.Temperature
		temp = &t
	}

	resp, err := p.client.CallChatCompletionsChat(ctx, &request.ChatCompletionsRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: temp,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("deepseek request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
