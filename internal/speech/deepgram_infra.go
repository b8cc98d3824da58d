package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/httpclient"
)

const deepgramURL = "https://api.deepgram.com/v1/listen"

type DeepgramClient struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewDeepgramClient(apiKey string, log *zap.Logger) (*DeepgramClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("DEEPGRAM_API_KEY not set")
	}

	return &DeepgramClient{
		apiKey:  apiKey,
		baseURL: deepgramURL,
		client:  httpclient.New("deepgram", 60*time.Second, log),
	}, nil
}

func (c *DeepgramClient) Transcribe(ctx context.Context, audio Audio, languageCode string) (string, error) {
	q := url.Values{}
	q.Set("model", "nova-2")
	q.Set("smart_format", "true")
	q.Set("language", languageCode)

	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/wav"
	}

	body, err := c.client.DoRaw(ctx, http.MethodPost, c.baseURL+"?"+q.Encode(), map[string]string{
		"Authorization": "Token " + c.apiKey,
		"Content-Type":  contentType,
	}, bytes.NewReader(audio.Data))
	if err != nil {
		return "", fmt.Errorf("%w: deepgram: %v", ErrUnavailable, err)
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode deepgram: %v", ErrUnavailable, err)
	}

	if len(parsed.Results.Channels) == 0 ||
		len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", ErrNotUnderstood
	}

	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
