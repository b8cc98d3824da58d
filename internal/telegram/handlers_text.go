package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/pipeline"
)

func (app *BotApp) handleText(ctx context.Context, msg *tgbotapi.Message, log *zap.Logger) {
	chatID := msg.Chat.ID
	target, text := app.splitTarget(msg.Text)

	log.Info("text start", zap.String("to", target))

	// === 0. индикатор ===
	thinking, _ := app.bot.Send(tgbotapi.NewMessage(chatID, "🤖 Translating…"))
	defer app.deleteMessage(chatID, thinking.MessageID)

	// === 1. перевод + озвучка ===
	res, err := app.pipe.RunText(ctx, pipeline.TextRequest{
		Text:   text,
		Source: app.source,
		Target: target,
	})

	// === 2. ответ ===
	app.reply(ctx, chatID, res, err, log)
}

func (app *BotApp) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := app.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		app.log.Debug("delete indicator failed", zap.Error(err))
	}
}
