package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITTS speaks any language the model handles, so it never reports
// ErrUnsupportedLanguage.
type OpenAITTS struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

func NewOpenAITTS(apiKey, baseURL string) (*OpenAITTS, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITTS{
		client: openai.NewClientWithConfig(cfg),
		voice:  openai.VoiceAlloy,
	}, nil
}

func (o *OpenAITTS) Synthesize(ctx context.Context, text, _ string) ([]byte, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai tts: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai tts read: %w", err)
	}
	return data, nil
}
