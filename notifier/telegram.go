package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Sender delivers operator notifications
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier delivers operator notifications to an admin chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier for the given bot token and chat
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.WithField("account", bot.Self.UserName).Info("Telegram notifier ready")

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Send delivers one message to the admin chat
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
