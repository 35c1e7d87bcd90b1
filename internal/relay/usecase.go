package relay

import (
	"context"
	"fmt"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

func (uc *usecase) Relay(ctx context.Context, input RelayInput) (RelayOutput, error) {
	event := input.Event
	key := event.IdempotencyKey()

	// Claim is the single check-and-mark; losing it means another delivery owns this event.
	if !uc.store.Claim(ctx, key) {
		uc.l.Infof(ctx, "relay: duplicate event %s for issue #%d, skipping", key, event.IssueNumber)
		return RelayOutput{Status: StatusDuplicate, Key: key}, nil
	}

	p, err := uc.synthesizer.Synthesize(event)
	if err != nil {
		uc.store.Release(ctx, key)
		return RelayOutput{}, fmt.Errorf("failed to synthesize prompt for %s: %w", key, err)
	}

	uc.l.Infof(ctx, "relay: synthesized prompt %s for issue #%d (%d requirement(s))",
		p.ID, event.IssueNumber, len(p.Requirements))

	out := RelayOutput{
		Status:       StatusProcessed,
		Key:          key,
		PromptID:     p.ID,
		Requirements: len(p.Requirements),
	}

	// A failed write keeps the claim. The event counts as consumed.
	if err := uc.sink.Write(ctx, p); err != nil {
		uc.l.Errorf(ctx, "relay: sink write failed for prompt %s (%s): %v", p.ID, describe(event), err)
		out.SinkErr = err
		return out, nil
	}

	uc.l.Infof(ctx, "relay: prompt %s written", p.ID)
	return out, nil
}

func describe(e model.GitHubEvent) string {
	return fmt.Sprintf("%s %s/%s issue #%d", e.Repository, e.EventType, e.Action, e.IssueNumber)
}
