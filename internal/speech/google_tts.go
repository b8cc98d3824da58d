package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/httpclient"
)

const googleTTSURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

// Google wants a region-qualified tag; the voice itself is left to the service.
var googleLanguageCodes = map[string]string{
	"hi":    "hi-IN",
	"kn":    "kn-IN",
	"te":    "te-IN",
	"ta":    "ta-IN",
	"ml":    "ml-IN",
	"en":    "en-US",
	"es":    "es-ES",
	"fr":    "fr-FR",
	"de":    "de-DE",
	"zh-CN": "cmn-CN",
	"ja":    "ja-JP",
	"ru":    "ru-RU",
}

type googleSynthRequest struct {
	Input       googleSynthInput       `json:"input"`
	Voice       googleSynthVoice       `json:"voice"`
	AudioConfig googleSynthAudioConfig `json:"audioConfig"`
}

type googleSynthInput struct {
	Text string `json:"text"`
}

type googleSynthVoice struct {
	LanguageCode string `json:"languageCode"`
}

type googleSynthAudioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

type googleSynthResponse struct {
	AudioContent string `json:"audioContent"` // base64
}

// GoogleTTS uses the Cloud Text-to-Speech REST API with MP3 output.
type GoogleTTS struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewGoogleTTS(apiKey string, log *zap.Logger) (*GoogleTTS, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not set")
	}
	return &GoogleTTS{
		apiKey:  apiKey,
		baseURL: googleTTSURL,
		client:  httpclient.New("google-tts", 30*time.Second, log),
	}, nil
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	lang, ok := googleLanguageCodes[languageCode]
	if !ok {
		return nil, fmt.Errorf("%w: google: %q", ErrUnsupportedLanguage, languageCode)
	}

	req := googleSynthRequest{
		Input:       googleSynthInput{Text: text},
		Voice:       googleSynthVoice{LanguageCode: lang},
		AudioConfig: googleSynthAudioConfig{AudioEncoding: "MP3"},
	}

	var resp googleSynthResponse
	apiURL := g.baseURL + "?key=" + url.QueryEscape(g.apiKey)
	if err := g.client.DoJSON(ctx, http.MethodPost, apiURL, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("google TTS: %w", err)
	}

	mp3, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("google TTS decode audio: %w", err)
	}
	return mp3, nil
}
