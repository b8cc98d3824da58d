package speech

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotUnderstood       = errors.New("speech could not be understood")
	ErrUnavailable         = errors.New("speech service unavailable")
	ErrUnsupportedLanguage = errors.New("language not supported by synthesizer")
)

// Audio: записанная речь вместе с её контейнером (audio/wav, audio/ogg, audio/webm ...).
type Audio struct {
	Data        []byte
	ContentType string
}

type Recognizer interface {
	// Transcribe returns ErrNotUnderstood when the audio maps to no text and
	// ErrUnavailable on backend or network failure. An empty string with a nil
	// error means recognition succeeded but produced nothing.
	Transcribe(ctx context.Context, audio Audio, languageCode string) (string, error)
}

type Synthesizer interface {
	// Synthesize returns MP3 bytes.
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}

// primaryTag: "zh-CN" → "zh".
func primaryTag(code string) string {
	if i := strings.IndexAny(code, "-_"); i > 0 {
		return strings.ToLower(code[:i])
	}
	return strings.ToLower(code)
}
