package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrMissingCredential = errors.New("translator API key is not configured")
	ErrEmptyResponse     = errors.New("translator returned an empty response")
)

// Completer: низкоуровневый клиент LLM.
type Completer interface {
	GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

type Translator interface {
	// Translate takes language display names, not codes.
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}
