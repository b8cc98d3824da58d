package capture

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/speech"
)

// SpeechCapture records one utterance and hands it to a recognizer.
type SpeechCapture struct {
	mic        Microphone
	recognizer speech.Recognizer
	log        *zap.Logger
}

func NewSpeechCapture(mic Microphone, recognizer speech.Recognizer, log *zap.Logger) *SpeechCapture {
	if log == nil {
		log = zap.NewNop()
	}
	return &SpeechCapture{mic: mic, recognizer: recognizer, log: log}
}

func (s *SpeechCapture) Capture(ctx context.Context, languageCode string) (string, error) {
	pcm, err := s.mic.Record(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSpeech) {
			return "", fmt.Errorf("%w: %v", speech.ErrNotUnderstood, err)
		}
		return "", fmt.Errorf("%w: microphone: %v", speech.ErrUnavailable, err)
	}

	s.log.Info("utterance recorded", zap.Int("bytes", len(pcm)), zap.String("lang", languageCode))
	return s.recognizer.Transcribe(ctx, speech.Audio{
		Data:        EncodeWAV(pcm, SampleRate),
		ContentType: "audio/wav",
	}, languageCode)
}

// Upload recognizes audio that was already recorded elsewhere, e.g. by a browser.
type Upload struct {
	Recognizer speech.Recognizer
	Audio      speech.Audio
}

func (u Upload) Capture(ctx context.Context, languageCode string) (string, error) {
	if len(u.Audio.Data) == 0 {
		return "", fmt.Errorf("%w: empty recording", speech.ErrNotUnderstood)
	}
	return u.Recognizer.Transcribe(ctx, u.Audio, languageCode)
}
