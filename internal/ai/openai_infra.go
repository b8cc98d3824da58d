package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient never fails: an empty key yields ErrMissingCredential on the first call.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}

	c := &OpenAIClient{model: model}
	if apiKey == "" {
		return c
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if c.client == nil {
		return "", ErrMissingCredential
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
