package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/ai"
	"github.com/Vovarama1992/voice_translator/internal/artifact"
	"github.com/Vovarama1992/voice_translator/internal/capture"
	"github.com/Vovarama1992/voice_translator/internal/config"
	"github.com/Vovarama1992/voice_translator/internal/languages"
	"github.com/Vovarama1992/voice_translator/internal/pipeline"
	"github.com/Vovarama1992/voice_translator/internal/speech"
	"github.com/Vovarama1992/voice_translator/internal/textrules"
)

func main() {
	cfg := config.Load()

	mode := flag.String("mode", "text", "text or speech")
	from := flag.String("from", cfg.DefaultSourceLanguage, "source language name")
	to := flag.String("to", cfg.DefaultTargetLanguage, "target language name")
	text := flag.String("text", "", "text to translate (text mode; stdin when empty)")
	out := flag.String("out", "translated_audio.mp3", "where to write the spoken translation")
	verbose := flag.Bool("v", false, "debug logging")
	list := flag.Bool("languages", false, "list languages and exit")
	flag.Parse()

	catalog := languages.Default()
	if *list {
		for _, e := range catalog.Entries() {
			fmt.Printf("%-22s %s\n", e.DisplayName, e.Code)
		}
		return
	}

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, catalog, log, *mode, *from, *to, *text, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, catalog *languages.Catalog, log *zap.Logger, mode, from, to, text, out string) error {
	store, err := artifact.NewLocalStore(filepath.Dir(out), filepath.Base(out))
	if err != nil {
		return err
	}
	rules, err := textrules.NewFileRepo(cfg.TextRulesFile)
	if err != nil {
		return err
	}

	synthesizer, err := speech.NewSynthesizer(cfg, log)
	if err != nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}

	translator := ai.NewTranslateService(
		ai.NewOpenAIClient(cfg.TranslatorAPIKey, cfg.TranslatorBaseURL, cfg.TranslatorModel),
		cfg.TranslatorTimeout,
		log,
	)
	pipe := pipeline.New(catalog, translator, synthesizer, store, textrules.NewService(rules), nil, log)

	var res *pipeline.Result
	switch mode {
	case "text":
		if text == "" {
			text = readStdin()
		}
		res, err = pipe.RunText(ctx, pipeline.TextRequest{Text: text, Source: from, Target: to, Observer: progress})

	case "speech":
		recognizer, rErr := speech.NewRecognizer(cfg, log)
		if rErr != nil {
			return fmt.Errorf("speech recognition: %w", rErr)
		}
		mic := capture.NewMalgoMicrophone(capture.DefaultVADConfig(), log)
		res, err = pipe.RunSpeech(ctx, pipeline.SpeechRequest{Source: from, Target: to, Observer: progress},
			capture.NewSpeechCapture(mic, recognizer, log))

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if f, ok := pipeline.AsFailure(err); ok {
		return errors.New(f.Message)
	}
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Println(res.Notice)
		return nil
	}

	a := res.Artifact
	line := fmt.Sprintf("Saved %s (%s)", a.Location, a.HumanSize())
	if d, dErr := speech.AudioDuration(ctx, a.Location); dErr == nil {
		line += fmt.Sprintf(", %.1fs", d.Seconds())
	}
	fmt.Println(line)
	return nil
}

func progress(e pipeline.Event) {
	switch e.Name {
	case "listening":
		fmt.Println("Listening... Speak something.")
	case "recognized":
		fmt.Println("Recognized Speech:", e.Text)
	case "translated":
		fmt.Println("Translated Text:", e.Text)
	}
}

func readStdin() string {
	st, err := os.Stdin.Stat()
	if err != nil || st.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	data, _ := io.ReadAll(os.Stdin)
	return strings.TrimSpace(string(data))
}
