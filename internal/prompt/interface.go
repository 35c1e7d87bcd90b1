package prompt

import "github.com/Aleqsd/github-codex-bot/internal/model"

// Synthesizer turns an in-scope event into a Prompt.
type Synthesizer interface {
	// Synthesize is pure: the same event always yields an identical Prompt.
	Synthesize(event model.GitHubEvent) (model.Prompt, error)
}
