package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/artifact"
	"github.com/Vovarama1992/voice_translator/internal/languages"
	"github.com/Vovarama1992/voice_translator/internal/pipeline"
	"github.com/Vovarama1992/voice_translator/internal/speech"
)

// Bot is the subset of *tgbotapi.BotAPI the app uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Runner interface {
	RunText(ctx context.Context, req pipeline.TextRequest) (*pipeline.Result, error)
	RunSpeech(ctx context.Context, req pipeline.SpeechRequest, c pipeline.SpeechCapture) (*pipeline.Result, error)
}

// BotApp answers every message on its own: no per-chat state is kept.
type BotApp struct {
	bot        Bot
	pipe       Runner
	recognizer speech.Recognizer
	store      artifact.Store
	catalog    *languages.Catalog
	source     string
	target     string
	http       *http.Client
	log        *zap.Logger
}

func NewBotApp(
	bot Bot,
	pipe Runner,
	recognizer speech.Recognizer,
	store artifact.Store,
	catalog *languages.Catalog,
	defaultSource, defaultTarget string,
	log *zap.Logger,
) *BotApp {
	if log == nil {
		log = zap.NewNop()
	}
	return &BotApp{
		bot:        bot,
		pipe:       pipe,
		recognizer: recognizer,
		store:      store,
		catalog:    catalog,
		source:     defaultSource,
		target:     defaultTarget,
		http:       &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

// Run: главный цикл получения апдейтов
func (app *BotApp) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	app.log.Info("telegram loop started")
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go app.dispatchUpdate(ctx, update)
		}
	}
}

func (app *BotApp) dispatchUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	log := app.log.With(zap.Int64("chat", msg.Chat.ID), zap.Int("update", update.UpdateID))

	switch {
	case msg.IsCommand():
		app.handleCommand(msg)
	case msg.Voice != nil:
		app.handleVoice(ctx, msg, log)
	case msg.Text != "":
		app.handleText(ctx, msg, log)
	default:
		app.send(tgbotapi.NewMessage(msg.Chat.ID, "📎 Send text or a voice message."))
	}
}

func (app *BotApp) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		app.send(tgbotapi.NewMessage(msg.Chat.ID, app.helpText()))
	case "languages":
		app.send(tgbotapi.NewMessage(msg.Chat.ID, app.languageList()))
	default:
		app.send(tgbotapi.NewMessage(msg.Chat.ID, "Unknown command. Try /help."))
	}
}

func (app *BotApp) send(c tgbotapi.Chattable) {
	if _, err := app.bot.Send(c); err != nil {
		app.log.Warn("telegram send failed", zap.Error(err))
	}
}
