package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/ai"
	"github.com/Vovarama1992/voice_translator/internal/artifact"
	"github.com/Vovarama1992/voice_translator/internal/error_notificator"
	"github.com/Vovarama1992/voice_translator/internal/metrics"
	"github.com/Vovarama1992/voice_translator/internal/speech"
	"github.com/Vovarama1992/voice_translator/internal/textrules"
)

type Mode string

const (
	ModeText   Mode = "text"
	ModeSpeech Mode = "speech"
)

const (
	NoticeEmptyText    = "Enter some text to translate."
	NoticeHeardNothing = "I heard nothing. Please speak again."
)

// Catalog resolves display names to language codes.
type Catalog interface {
	CodeFor(name string) (string, error)
}

// SpeechCapture returns a transcript for one utterance in languageCode.
type SpeechCapture interface {
	Capture(ctx context.Context, languageCode string) (string, error)
}

// Event names a stage the run has reached.
type Event struct {
	Name string // listening, recognized, translating, translated, synthesized
	Text string
}

type Observer func(Event)

type TextRequest struct {
	Text     string
	Source   string
	Target   string
	Observer Observer
}

type SpeechRequest struct {
	Source   string
	Target   string
	Observer Observer
}

type Result struct {
	Mode        Mode
	Transcript  string
	Translation string
	Artifact    *artifact.Artifact
	Skipped     bool
	Notice      string
}

type Pipeline struct {
	catalog     Catalog
	translator  ai.Translator
	synthesizer speech.Synthesizer
	store       artifact.Store
	rules       textrules.Service
	notifier    error_notificator.Notificator
	log         *zap.Logger
}

// New wires a pipeline. rules, notifier and log may be nil.
func New(
	catalog Catalog,
	translator ai.Translator,
	synthesizer speech.Synthesizer,
	store artifact.Store,
	rules textrules.Service,
	notifier error_notificator.Notificator,
	log *zap.Logger,
) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		catalog:     catalog,
		translator:  translator,
		synthesizer: synthesizer,
		store:       store,
		rules:       rules,
		notifier:    notifier,
		log:         log,
	}
}

// RunText translates typed text and speaks the result. Blank text is a
// no-op reported through Result.Skipped.
func (p *Pipeline) RunText(ctx context.Context, req TextRequest) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		metrics.PipelineRuns.WithLabelValues(string(ModeText), "skipped").Inc()
		return &Result{Mode: ModeText, Skipped: true, Notice: NoticeEmptyText}, nil
	}

	_, targetCode, err := p.resolve(req.Source, req.Target)
	if err != nil {
		return nil, err
	}

	res, err := p.translateAndSpeak(ctx, ModeText, req.Text, req.Source, req.Target, targetCode, req.Observer)
	p.finish(ModeText, err)
	return res, err
}

// RunSpeech captures one utterance in the source language, then continues as RunText.
func (p *Pipeline) RunSpeech(ctx context.Context, req SpeechRequest, capture SpeechCapture) (*Result, error) {
	sourceCode, targetCode, err := p.resolve(req.Source, req.Target)
	if err != nil {
		return nil, err
	}

	emit(req.Observer, Event{Name: "listening"})
	start := time.Now()
	transcript, err := capture.Capture(ctx, sourceCode)
	if err != nil {
		f := recognitionFailure(err)
		p.fail(ctx, f, zap.String("source", sourceCode), zap.Duration("elapsed", time.Since(start)))
		p.finish(ModeSpeech, f)
		return nil, f
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		p.log.Info("empty transcript", zap.String("source", sourceCode))
		metrics.PipelineRuns.WithLabelValues(string(ModeSpeech), "skipped").Inc()
		return &Result{Mode: ModeSpeech, Skipped: true, Notice: NoticeHeardNothing}, nil
	}
	emit(req.Observer, Event{Name: "recognized", Text: transcript})

	res, err := p.translateAndSpeak(ctx, ModeSpeech, transcript, req.Source, req.Target, targetCode, req.Observer)
	if res != nil {
		res.Transcript = transcript
	}
	p.finish(ModeSpeech, err)
	return res, err
}

func (p *Pipeline) resolve(source, target string) (sourceCode, targetCode string, err error) {
	if sourceCode, err = p.catalog.CodeFor(source); err != nil {
		return "", "", fmt.Errorf("source language: %w", err)
	}
	if targetCode, err = p.catalog.CodeFor(target); err != nil {
		return "", "", fmt.Errorf("target language: %w", err)
	}
	return sourceCode, targetCode, nil
}

func (p *Pipeline) translateAndSpeak(ctx context.Context, mode Mode, text, source, target, targetCode string, obs Observer) (*Result, error) {
	emit(obs, Event{Name: "translating"})

	start := time.Now()
	translation, err := p.translator.Translate(ctx, text, source, target)
	metrics.StageLatency.WithLabelValues(string(StageTranslation)).Observe(time.Since(start).Seconds())
	if err != nil {
		f := translationFailure(err)
		p.fail(ctx, f, zap.String("from", source), zap.String("to", target))
		return nil, f
	}
	emit(obs, Event{Name: "translated", Text: translation})

	res := &Result{Mode: mode, Translation: translation}

	spoken := translation
	if p.rules != nil {
		if spoken, err = p.rules.Process(ctx, translation, targetCode); err != nil {
			p.log.Warn("text rules failed, speaking raw translation", zap.Error(err))
			spoken = translation
		}
	}

	audio, err := p.synthesizer.Synthesize(ctx, spoken, targetCode)
	if err != nil {
		f := synthesisFailure(err, targetCode)
		p.fail(ctx, f, zap.String("lang", targetCode))
		return res, f
	}

	a, err := p.store.Save(ctx, targetCode, audio)
	if err != nil {
		f := synthesisFailure(fmt.Errorf("store artifact: %w", err), targetCode)
		p.fail(ctx, f, zap.String("lang", targetCode))
		return res, f
	}
	metrics.ArtifactBytes.Add(float64(a.Size))
	res.Artifact = a
	emit(obs, Event{Name: "synthesized", Text: a.ID})

	p.log.Info("pipeline done",
		zap.String("mode", string(mode)),
		zap.String("lang", targetCode),
		zap.String("artifact", a.ID),
		zap.Int64("bytes", a.Size),
	)
	return res, nil
}

func (p *Pipeline) fail(ctx context.Context, f *Failure, fields ...zap.Field) {
	metrics.StageFailures.WithLabelValues(string(f.Stage), string(f.Reason)).Inc()

	fields = append(fields,
		zap.String("stage", string(f.Stage)),
		zap.String("reason", string(f.Reason)),
		zap.Error(f.Err),
	)
	if !f.backend() {
		p.log.Warn("pipeline stopped", fields...)
		return
	}

	p.log.Error("pipeline stopped", fields...)
	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, string(f.Stage), f.Err, string(f.Reason)); err != nil {
			p.log.Warn("notify failed", zap.Error(err))
		}
	}
}

func (p *Pipeline) finish(mode Mode, err error) {
	outcome := "ok"
	if f, ok := AsFailure(err); ok {
		outcome = string(f.Stage) + "_failed"
	}
	metrics.PipelineRuns.WithLabelValues(string(mode), outcome).Inc()
}

func emit(obs Observer, e Event) {
	if obs != nil {
		obs(e)
	}
}
