package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramInfra шлёт ошибки в админский чат.
type TelegramInfra struct {
	bot    Sender
	chatID int64
}

func NewTelegramInfra(bot Sender, chatID int64) *TelegramInfra {
	return &TelegramInfra{bot: bot, chatID: chatID}
}

func (i *TelegramInfra) Notify(_ context.Context, source string, err error, details string) error {
	if i.bot == nil || i.chatID == 0 {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Translator failure (%s)\n\nError: %v\n\nDetails: %s",
		source,
		err,
		details,
	)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.chatID, text)); sendErr != nil {
		return fmt.Errorf("send admin notification: %w", sendErr)
	}
	return nil
}

// LogInfra пишет ошибки в zap.
type LogInfra struct {
	log *zap.Logger
}

func NewLogInfra(log *zap.Logger) *LogInfra {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogInfra{log: log}
}

func (i *LogInfra) Notify(_ context.Context, source string, err error, details string) error {
	i.log.Error("backend failure",
		zap.String("source", source),
		zap.String("details", details),
		zap.Error(err),
	)
	return nil
}
