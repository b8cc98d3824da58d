package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/languages"
	"github.com/Vovarama1992/voice_translator/internal/pipeline"
)

func (app *BotApp) reply(ctx context.Context, chatID int64, res *pipeline.Result, err error, log *zap.Logger) {
	if res != nil && res.Skipped {
		app.send(tgbotapi.NewMessage(chatID, res.Notice))
		return
	}

	if res != nil {
		if res.Transcript != "" {
			app.send(tgbotapi.NewMessage(chatID, "🗣 Recognized Speech: "+res.Transcript))
		}
		if res.Translation != "" {
			app.send(tgbotapi.NewMessage(chatID, "✅ "+res.Translation))
		}
	}

	if err != nil {
		app.send(tgbotapi.NewMessage(chatID, "⚠️ "+userMessage(err)))
		log.Warn("request failed", zap.Error(err))
		return
	}

	if res == nil || res.Artifact == nil {
		return
	}

	audio, err := app.readArtifact(ctx, res.Artifact.ID)
	if err != nil {
		log.Error("artifact read failed", zap.String("artifact", res.Artifact.ID), zap.Error(err))
		app.send(tgbotapi.NewMessage(chatID, "⚠️ Audio is not available."))
		return
	}

	a := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{Name: res.Artifact.ID + ".mp3", Bytes: audio})
	a.Title = "Translation (" + res.Artifact.LanguageCode + ")"
	app.send(a)
	log.Info("done", zap.String("artifact", res.Artifact.ID), zap.String("size", res.Artifact.HumanSize()))
}

func (app *BotApp) readArtifact(ctx context.Context, id string) ([]byte, error) {
	rc, _, err := app.store.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func userMessage(err error) string {
	if f, ok := pipeline.AsFailure(err); ok {
		return f.Message
	}
	if errors.Is(err, languages.ErrUnknownLanguage) {
		return fmt.Sprintf("I don't know that language. %v", err)
	}
	return "Something went wrong, please try again."
}
