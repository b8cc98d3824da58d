package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/httpclient"
)

const elevenLabsURL = "https://api.elevenlabs.io/v1/text-to-speech/"

// Languages eleven_flash_v2_5 accepts in language_code.
var elevenLabsLanguages = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "hi": true,
	"ta": true, "ja": true, "zh": true, "ru": true,
}

type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *httpclient.Client
}

func NewElevenLabsClient(apiKey, voiceID string, log *zap.Logger) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
	}
	if voiceID == "" {
		voiceID = "EXAVITQu4vr4xnSDxMaL" // Rachel
	}

	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: elevenLabsURL,
		client:  httpclient.New("elevenlabs", 60*time.Second, log),
	}, nil
}

type elevenLabsRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id"`
	LanguageCode string `json:"language_code"`
}

// TEXT → SPEECH
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	lang := primaryTag(languageCode)
	if !elevenLabsLanguages[lang] {
		return nil, fmt.Errorf("%w: elevenlabs: %q", ErrUnsupportedLanguage, languageCode)
	}

	payload, err := json.Marshal(elevenLabsRequest{
		Text:         text,
		ModelID:      "eleven_flash_v2_5",
		LanguageCode: lang,
	})
	if err != nil {
		return nil, err
	}

	data, err := c.client.DoRaw(ctx, http.MethodPost, c.baseURL+c.voiceID, map[string]string{
		"xi-api-key":   c.apiKey,
		"Content-Type": "application/json",
		"Accept":       "audio/mpeg",
	}, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs tts: %w", err)
	}
	return data, nil
}
