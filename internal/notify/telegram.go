package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/example/vocabsrs/pkg/models"
)

// TelegramNotifier delivers review reminders as Telegram messages
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	logger zerolog.Logger
}

// NewTelegramNotifier connects to the Bot API with token
func NewTelegramNotifier(token string, logger zerolog.Logger) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithClient(token, tgbotapi.APIEndpoint, http.DefaultClient, logger)
}

// NewTelegramNotifierWithClient is NewTelegramNotifier against a custom endpoint and HTTP client
func NewTelegramNotifierWithClient(token, endpoint string, client *http.Client, logger zerolog.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info().Str("bot", api.Self.UserName).Msg("telegram notifier ready")
	return &TelegramNotifier{api: api, logger: logger}, nil
}

// SendReminder tells the user how many words are waiting for review
func (n *TelegramNotifier) SendReminder(ctx context.Context, user models.User, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(user.ChatID, ReminderText(count))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to user %d: %w", user.ID, err)
	}
	n.logger.Info().Int64("user_id", user.ID).Int("count", count).Msg("reminder sent")
	return nil
}

// ReminderText is the message body of a reminder
func ReminderText(count int) string {
	noun := "words"
	if count == 1 {
		noun = "word"
	}
	return fmt.Sprintf("You have %d %s to review! Run a study session before they fade.", count, noun)
}

// LogNotifier writes reminders to the log instead of sending them
type LogNotifier struct {
	Logger zerolog.Logger
}

// SendReminder logs the reminder
func (n LogNotifier) SendReminder(_ context.Context, user models.User, count int) error {
	n.Logger.Info().
		Int64("user_id", user.ID).
		Int64("chat_id", user.ChatID).
		Int("count", count).
		Str("text", ReminderText(count)).
		Msg("reminder (dry run)")
	return nil
}
