package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You are a professional translator.
Translate the text you receive from %s to %s.
Maintain the sentiment and context of the original text.
Provide only the translation without any additional explanation or analysis.`

type TranslateService struct {
	client  Completer
	timeout time.Duration
	log     *zap.Logger
}

func NewTranslateService(client Completer, timeout time.Duration, log *zap.Logger) *TranslateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TranslateService{
		client:  client,
		timeout: timeout,
		log:     log,
	}
}

// Translate makes exactly one attempt.
func (s *TranslateService) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, sourceLanguage, targetLanguage)},
		{Role: openai.ChatMessageRoleUser, Content: "Text to translate: " + text},
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.client.GetCompletion(ctx, messages)
	s.log.Debug("translator call done",
		zap.String("from", sourceLanguage),
		zap.String("to", targetLanguage),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)

	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", Diagnose(err), err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

// Diagnose turns a backend error into a short human-readable cause.
func Diagnose(err error) string {
	code := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	}

	msg := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "translator timed out"
	case code == http.StatusUnauthorized:
		return "invalid translator API key"
	case code == http.StatusNotFound:
		return "translation model not found"
	case code == http.StatusTooManyRequests:
		return "translator quota exceeded"
	case code == http.StatusBadRequest && strings.Contains(msg, "model"):
		return "invalid translation model"
	case code == http.StatusBadRequest:
		return "invalid request to translator"
	case code >= 500:
		return "translator internal error"
	}
	return "translator error"
}
