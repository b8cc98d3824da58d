package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperClient transcribes through the OpenAI audio/transcriptions endpoint.
type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient(apiKey, baseURL string) (*WhisperClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &WhisperClient{client: openai.NewClientWithConfig(cfg)}, nil
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio Audio, languageCode string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio.Data),
		FilePath: "speech" + extensionFor(audio.ContentType),
		Language: primaryTag(languageCode),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("%w: whisper: %v", ErrUnavailable, err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// Whisper определяет формат по расширению имени файла.
func extensionFor(contentType string) string {
	ct := strings.ToLower(contentType)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch ct {
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/webm", "video/webm":
		return ".webm"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	}
	return ".wav"
}
