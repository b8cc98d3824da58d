package speech

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/config"
	"github.com/Vovarama1992/voice_translator/internal/metrics"
)

// === Единый сервис (и для стт и для ттс) ===

type Service struct {
	stt Recognizer
	tts Synthesizer
	log *zap.Logger
}

func NewService(stt Recognizer, tts Synthesizer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		stt: stt,
		tts: tts,
		log: log,
	}
}

func (s *Service) Transcribe(ctx context.Context, audio Audio, languageCode string) (string, error) {
	if s.stt == nil {
		return "", fmt.Errorf("%w: no recognizer configured", ErrUnavailable)
	}

	start := time.Now()
	text, err := s.stt.Transcribe(ctx, audio, languageCode)
	metrics.StageLatency.WithLabelValues("recognition").Observe(time.Since(start).Seconds())

	s.log.Debug("transcribe done",
		zap.String("lang", languageCode),
		zap.Int("bytes", len(audio.Data)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return text, err
}

func (s *Service) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	if s.tts == nil {
		return nil, fmt.Errorf("no synthesizer configured")
	}

	start := time.Now()
	data, err := s.tts.Synthesize(ctx, text, languageCode)
	metrics.StageLatency.WithLabelValues("synthesis").Observe(time.Since(start).Seconds())

	s.log.Debug("synthesize done",
		zap.String("lang", languageCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return data, err
}

// NewRecognizer picks the STT backend named in cfg.STTBackend.
func NewRecognizer(cfg *config.Config, log *zap.Logger) (Recognizer, error) {
	switch cfg.STTBackend {
	case "deepgram":
		c, err := NewDeepgramClient(cfg.DeepgramAPIKey, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "whisper", "openai":
		c, err := NewWhisperClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown STT backend %q", cfg.STTBackend)
}

// NewSynthesizer picks the TTS backend named in cfg.TTSBackend.
func NewSynthesizer(cfg *config.Config, log *zap.Logger) (Synthesizer, error) {
	switch cfg.TTSBackend {
	case "google":
		g, err := NewGoogleTTS(cfg.GoogleAPIKey, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "elevenlabs":
		e, err := NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, log)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "openai":
		o, err := NewOpenAITTS(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("unknown TTS backend %q", cfg.TTSBackend)
}
