package prompt

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// promptNamespace scopes the name-based UUIDs derived from idempotency keys.
var promptNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Aleqsd/github-codex-bot/prompts"))

type synthesizer struct{}

// New returns the default Synthesizer.
func New() Synthesizer {
	return synthesizer{}
}

func (synthesizer) Synthesize(event model.GitHubEvent) (model.Prompt, error) {
	if event.IssueNumber <= 0 {
		return model.Prompt{}, ErrMissingIssueNumber
	}

	var header string
	switch event.Kind {
	case model.KindIssueOpened:
		header = fmt.Sprintf(headerIssueOpened, event.IssueNumber, event.Title)
	case model.KindIssueCommentCreated:
		header = fmt.Sprintf(headerCommentAdded, event.IssueNumber)
	default:
		return model.Prompt{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, event.Kind)
	}

	key := event.IdempotencyKey()

	return model.Prompt{
		ID:     uuid.NewSHA1(promptNamespace, []byte(key)).String(),
		Key:    key,
		Kind:   event.Kind,
		Header: header,
		Context: model.PromptContext{
			Repository:  event.Repository,
			Actor:       event.ActorLogin,
			IssueNumber: event.IssueNumber,
			IssueURL:    event.IssueURL,
			CommentURL:  event.CommentURL,
			ReceivedAt:  event.ReceivedAt.UTC(),
		},
		Requirements: ExtractRequirements(event.Body),
		RawBody:      event.Body,
	}, nil
}
