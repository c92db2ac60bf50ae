package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxPushRunes is the chunk size for long pushes, kept under Telegram's
// 4096-character message limit with headroom.
const maxPushRunes = 4000

// TelegramNotifier delivers push notifications through the bot API,
// splitting oversized payloads into ordered sequential messages.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

func (t *TelegramNotifier) SendPush(ctx context.Context, chatID int64, text string) error {
	for i, chunk := range splitRunes(text, maxPushRunes) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := t.api.Send(msg); err != nil {
			return fmt.Errorf("failed to send chunk %d: %w", i+1, err)
		}
	}
	return nil
}

// splitRunes splits s into chunks of at most n runes, never cutting inside a
// multi-byte character.
func splitRunes(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	runes := []rune(s)
	var chunks []string
	for len(runes) > n {
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return append(chunks, string(runes))
}
