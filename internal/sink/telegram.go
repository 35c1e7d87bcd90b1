package sink

import (
	"context"
	"fmt"

	"github.com/Aleqsd/github-codex-bot/internal/model"
	"github.com/Aleqsd/github-codex-bot/internal/prompt"
)

// telegramMaxRunes stays under the Bot API limit of 4096 characters per message.
const telegramMaxRunes = 4000

// TelegramSink notifies a chat with the rendered prompt.
type TelegramSink struct {
	bot    Messenger
	chatID int64
}

func NewTelegramSink(bot Messenger, chatID int64) *TelegramSink {
	return &TelegramSink{bot: bot, chatID: chatID}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Write(ctx context.Context, p model.Prompt) error {
	text := truncateRunes(prompt.Render(p), telegramMaxRunes)
	if err := s.bot.SendMessage(ctx, s.chatID, text); err != nil {
		return fmt.Errorf("failed to notify chat %d: %w", s.chatID, err)
	}
	return nil
}

func truncateRunes(s string, max int) string {
	const marker = "\n... (truncated, see prompt log)"
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-len([]rune(marker))]) + marker
}
