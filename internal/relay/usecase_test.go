package relay_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aleqsd/github-codex-bot/internal/dedup"
	"github.com/Aleqsd/github-codex-bot/internal/model"
	"github.com/Aleqsd/github-codex-bot/internal/prompt"
	"github.com/Aleqsd/github-codex-bot/internal/relay"
	pkgLog "github.com/Aleqsd/github-codex-bot/pkg/log"
)

type countingSink struct {
	mu      sync.Mutex
	prompts []model.Prompt
	err     error
}

func (s *countingSink) Name() string { return "counting" }

func (s *countingSink) Write(ctx context.Context, p model.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	return s.err
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type failingSynthesizer struct{}

func (failingSynthesizer) Synthesize(model.GitHubEvent) (model.Prompt, error) {
	return model.Prompt{}, prompt.ErrMissingIssueNumber
}

func newStore(t *testing.T) dedup.Store {
	t.Helper()
	s, err := dedup.New(context.Background(), pkgLog.NewNopLogger(), dedup.Options{})
	if err != nil {
		t.Fatalf("dedup.New: %v", err)
	}
	return s
}

func event() model.GitHubEvent {
	return model.GitHubEvent{
		Kind:        model.KindIssueOpened,
		EventType:   model.EventTypeIssues,
		Repository:  "Aleqsd/EDH-PodLog",
		ActorLogin:  "GROBimbo",
		IssueNumber: 1,
		Title:       "Test feature",
		Body:        "Add deck export to Moxfield",
		DeliveryID:  "d-1",
		Action:      model.ActionOpened,
		ReceivedAt:  time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestRelay(t *testing.T) {
	ctx := context.Background()

	t.Run("processed then duplicate", func(t *testing.T) {
		sk := &countingSink{}
		uc := relay.New(newStore(t), prompt.New(), sk, pkgLog.NewNopLogger())

		out, err := uc.Relay(ctx, relay.RelayInput{Event: event()})
		if err != nil {
			t.Fatalf("Relay: %v", err)
		}
		if out.Status != relay.StatusProcessed || out.PromptID == "" || out.Requirements != 1 {
			t.Errorf("unexpected output %+v", out)
		}

		out, err = uc.Relay(ctx, relay.RelayInput{Event: event()})
		if err != nil {
			t.Fatalf("Relay: %v", err)
		}
		if out.Status != relay.StatusDuplicate {
			t.Errorf("expected duplicate, got %s", out.Status)
		}
		if sk.count() != 1 {
			t.Errorf("expected one sink write, got %d", sk.count())
		}
		if got := sk.prompts[0].Header; got != "Implement feature from issue #1: Test feature" {
			t.Errorf("unexpected header %q", got)
		}
	})

	t.Run("sink failure keeps the claim", func(t *testing.T) {
		store := newStore(t)
		sk := &countingSink{err: errors.New("disk full")}
		uc := relay.New(store, prompt.New(), sk, pkgLog.NewNopLogger())

		out, err := uc.Relay(ctx, relay.RelayInput{Event: event()})
		if err != nil {
			t.Fatalf("sink failure must not surface as an error: %v", err)
		}
		if out.Status != relay.StatusProcessed || out.SinkErr == nil {
			t.Errorf("expected processed with sink error, got %+v", out)
		}
		if !store.Seen(ctx, event().IdempotencyKey()) {
			t.Errorf("claim should survive a sink failure")
		}

		out, _ = uc.Relay(ctx, relay.RelayInput{Event: event()})
		if out.Status != relay.StatusDuplicate {
			t.Errorf("retry after sink failure should be a duplicate, got %s", out.Status)
		}
	})

	t.Run("synthesis failure releases the claim", func(t *testing.T) {
		store := newStore(t)
		sk := &countingSink{}
		uc := relay.New(store, failingSynthesizer{}, sk, pkgLog.NewNopLogger())

		if _, err := uc.Relay(ctx, relay.RelayInput{Event: event()}); !errors.Is(err, prompt.ErrMissingIssueNumber) {
			t.Errorf("expected synthesis error, got %v", err)
		}
		if store.Seen(ctx, event().IdempotencyKey()) {
			t.Errorf("claim should be released when synthesis fails")
		}
		if sk.count() != 0 {
			t.Errorf("nothing should be written")
		}
	})

	t.Run("fallback key without delivery id", func(t *testing.T) {
		sk := &countingSink{}
		uc := relay.New(newStore(t), prompt.New(), sk, pkgLog.NewNopLogger())

		e := event()
		e.DeliveryID = ""
		uc.Relay(ctx, relay.RelayInput{Event: e})
		out, _ := uc.Relay(ctx, relay.RelayInput{Event: e})
		if out.Status != relay.StatusDuplicate {
			t.Errorf("same content without delivery id should be a duplicate")
		}

		e.Body = "Add deck export to Archidekt"
		out, _ = uc.Relay(ctx, relay.RelayInput{Event: e})
		if out.Status != relay.StatusProcessed {
			t.Errorf("different content should be processed")
		}
		if sk.count() != 2 {
			t.Errorf("expected 2 writes, got %d", sk.count())
		}
	})

	t.Run("concurrent redeliveries", func(t *testing.T) {
		sk := &countingSink{}
		uc := relay.New(newStore(t), prompt.New(), sk, pkgLog.NewNopLogger())

		const n = 50
		var (
			wg        sync.WaitGroup
			processed atomic.Int32
			start     = make(chan struct{})
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				out, err := uc.Relay(ctx, relay.RelayInput{Event: event()})
				if err == nil && out.Status == relay.StatusProcessed {
					processed.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		if processed.Load() != 1 || sk.count() != 1 {
			t.Errorf("expected one processed and one write, got %d and %d", processed.Load(), sk.count())
		}
	})
}
