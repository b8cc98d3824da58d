package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/capture"
	"github.com/Vovarama1992/voice_translator/internal/pipeline"
	"github.com/Vovarama1992/voice_translator/internal/speech"
)

const maxVoiceBytes = 20 << 20

func (app *BotApp) handleVoice(ctx context.Context, msg *tgbotapi.Message, log *zap.Logger) {
	chatID := msg.Chat.ID
	fileID := msg.Voice.FileID
	target := app.target
	if canon, ok := app.lookup(msg.Caption); ok {
		target = canon
	}

	log.Info("voice start", zap.String("file", fileID), zap.Int("seconds", msg.Voice.Duration))

	data, err := app.download(ctx, fileID)
	if err != nil {
		log.Warn("voice download failed", zap.Error(err))
		app.send(tgbotapi.NewMessage(chatID, "⚠️ Could not download the voice message."))
		return
	}

	contentType := msg.Voice.MimeType
	if contentType == "" {
		contentType = "audio/ogg"
	}

	thinking, _ := app.bot.Send(tgbotapi.NewMessage(chatID, "🎧 Listening…"))
	defer app.deleteMessage(chatID, thinking.MessageID)

	res, err := app.pipe.RunSpeech(ctx, pipeline.SpeechRequest{
		Source: app.source,
		Target: target,
	}, capture.Upload{
		Recognizer: app.recognizer,
		Audio:      speech.Audio{Data: data, ContentType: contentType},
	})

	app.reply(ctx, chatID, res, err, log)
}

func (app *BotApp) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := app.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := app.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
}
