package sink

import (
	"context"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// Writer emits a synthesized prompt to one destination.
type Writer interface {
	Name() string
	Write(ctx context.Context, p model.Prompt) error
}

// Publisher publishes raw messages on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Messenger delivers a text message to a chat.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
