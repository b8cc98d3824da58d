package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/ai"
	"github.com/Vovarama1992/voice_translator/internal/artifact"
	"github.com/Vovarama1992/voice_translator/internal/config"
	"github.com/Vovarama1992/voice_translator/internal/delivery"
	"github.com/Vovarama1992/voice_translator/internal/error_notificator"
	"github.com/Vovarama1992/voice_translator/internal/languages"
	"github.com/Vovarama1992/voice_translator/internal/pipeline"
	"github.com/Vovarama1992/voice_translator/internal/speech"
	"github.com/Vovarama1992/voice_translator/internal/telegram"
	"github.com/Vovarama1992/voice_translator/internal/textrules"
)

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg := config.Load()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog := languages.Default()
	for _, name := range []string{cfg.DefaultSourceLanguage, cfg.DefaultTargetLanguage} {
		if !catalog.Has(name) {
			log.Fatalf("default language %q is not in the catalog", name)
		}
	}

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	store, err := artifact.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init artifact store: %v", err)
	}

	rulesRepo, err := textrules.NewFileRepo(cfg.TextRulesFile)
	if err != nil {
		log.Fatalf("failed to load text rules: %v", err)
	}

	var bot *tgbotapi.BotAPI
	if cfg.TelegramBotToken != "" {
		bot, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("failed to init telegram bot: %v", err)
		}
		baseLogger.Info("telegram bot ready", zap.String("username", bot.Self.UserName))
	}

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	notifiers := []error_notificator.Notificator{error_notificator.NewLogInfra(baseLogger)}
	if bot != nil && cfg.TelegramAdminChatID != 0 {
		notifiers = append(notifiers, error_notificator.NewTelegramInfra(bot, cfg.TelegramAdminChatID))
	}
	errService := error_notificator.NewService(notifiers...)

	// =========================================================================
	// CLIENTS (LLM / STT / TTS)
	// =========================================================================

	// ключ переводчика проверяется при первом вызове
	openAIClient := ai.NewOpenAIClient(cfg.TranslatorAPIKey, cfg.TranslatorBaseURL, cfg.TranslatorModel)
	translator := ai.NewTranslateService(openAIClient, cfg.TranslatorTimeout, baseLogger)

	recognizer, err := speech.NewRecognizer(cfg, baseLogger)
	if err != nil {
		baseLogger.Warn("speech recognition disabled", zap.String("backend", cfg.STTBackend), zap.Error(err))
	}
	synthesizer, err := speech.NewSynthesizer(cfg, baseLogger)
	if err != nil {
		baseLogger.Warn("speech synthesis disabled", zap.String("backend", cfg.TTSBackend), zap.Error(err))
	}
	speechService := speech.NewService(recognizer, synthesizer, baseLogger)

	// =========================================================================
	// PIPELINE
	// =========================================================================

	pipe := pipeline.New(
		catalog,
		translator,
		speechService,
		store,
		textrules.NewService(rulesRepo),
		errService,
		baseLogger,
	)

	// =========================================================================
	// TELEGRAM
	// =========================================================================

	if bot != nil {
		botApp := telegram.NewBotApp(
			bot,
			pipe,
			speechService,
			store,
			catalog,
			cfg.DefaultSourceLanguage,
			cfg.DefaultTargetLanguage,
			baseLogger,
		)
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		go botApp.Run(ctx, bot.GetUpdatesChan(u))
	}

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	defaults := delivery.Defaults{Source: cfg.DefaultSourceLanguage, Target: cfg.DefaultTargetLanguage}

	delivery.RegisterRoutes(
		r,
		delivery.NewPageHandler(catalog, defaults, zl),
		delivery.NewTranslateHandler(pipe, speechService, catalog, defaults, zl),
		delivery.NewArtifactHandler(store, zl),
		delivery.NewTextRuleHandler(rulesRepo),
		cfg.RateLimitPerMinute,
	)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if bot != nil {
			bot.StopReceivingUpdates()
		}
		_ = srv.Shutdown(shutdownCtx)
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "voice_translator",
	})

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
