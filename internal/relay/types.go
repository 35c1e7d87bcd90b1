package relay

import "github.com/Aleqsd/github-codex-bot/internal/model"

// Status is the terminal outcome of relaying one event.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusDuplicate Status = "duplicate"
)

// RelayInput is input for relaying an in-scope event.
type RelayInput struct {
	Event model.GitHubEvent
}

// RelayOutput is the result of relaying an event.
type RelayOutput struct {
	Status       Status
	Key          string
	PromptID     string
	Requirements int   // Number of extracted requirements
	SinkErr      error // Non-nil when the prompt could not be written
}
