package notificator

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/wishplanet/wishplanet/pkg/logger"
)

// TelegramNotificator mirrors the notification stream into a Telegram chat,
// typically one watched by the operator of the deployment.
type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot
	chatID string
}

func NewTelegramNotificator(logger *logger.Logger, token, chatID string) (*TelegramNotificator, error) {
	t := &TelegramNotificator{logger: logger, chatID: chatID}
	opts := []bot.Option{
		bot.WithDefaultHandler(t.handler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	go b.Start(context.Background())
	t.bot = b

	return t, nil
}

func (t *TelegramNotificator) Success(text string) { t.send("✅ " + text) }
func (t *TelegramNotificator) Info(text string)    { t.send("ℹ️ " + text) }
func (t *TelegramNotificator) Error(text string)   { t.send("❌ " + text) }

func (t *TelegramNotificator) send(message string) {
	params := &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	}
	_, err := t.bot.SendMessage(context.Background(), params)
	if err != nil {
		t.logger.Errorw("Failed to send telegram notification", "error", err)
	}
}

// handler answers /start with the chat id so an operator can discover the
// value for TELEGRAM_CHAT_ID.
func (t *TelegramNotificator) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil {
		return
	}
	t.logger.Debugw("Telegram update", "text", update.Message.Text)
	if update.Message.Text == "/start" {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   fmt.Sprintf("Chat ID: %d", update.Message.Chat.ID),
		})
		if err != nil {
			t.logger.Errorw("Failed to answer /start", "error", err)
		}
	}
}
