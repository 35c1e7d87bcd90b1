package prompt_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Aleqsd/github-codex-bot/internal/model"
	"github.com/Aleqsd/github-codex-bot/internal/prompt"
)

func issueOpened() model.GitHubEvent {
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
		IssueURL:    "https://github.com/Aleqsd/EDH-PodLog/issues/1",
		ReceivedAt:  time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestSynthesize(t *testing.T) {
	s := prompt.New()

	t.Run("issue opened", func(t *testing.T) {
		p, err := s.Synthesize(issueOpened())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Header != "Implement feature from issue #1: Test feature" {
			t.Errorf("unexpected header %q", p.Header)
		}
		if p.RawBody != "Add deck export to Moxfield" {
			t.Errorf("raw body not preserved: %q", p.RawBody)
		}
		if !reflect.DeepEqual(p.Requirements, []string{"Add deck export to Moxfield"}) {
			t.Errorf("unexpected requirements %q", p.Requirements)
		}
		if p.Context.Repository != "Aleqsd/EDH-PodLog" || p.Context.Actor != "GROBimbo" || p.Context.IssueNumber != 1 {
			t.Errorf("unexpected context %+v", p.Context)
		}
		if p.Key != "delivery:d-1" || p.ID == "" {
			t.Errorf("unexpected identity id=%q key=%q", p.ID, p.Key)
		}
	})

	t.Run("comment created", func(t *testing.T) {
		e := issueOpened()
		e.Kind = model.KindIssueCommentCreated
		e.EventType = model.EventTypeIssueComment
		e.Action = model.ActionCreated
		e.Body = "Also keep the old CSV export."
		e.CommentURL = "https://github.com/Aleqsd/EDH-PodLog/issues/1#issuecomment-9"

		p, err := s.Synthesize(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Header != "Follow-up instructions from comment on issue #1" {
			t.Errorf("unexpected header %q", p.Header)
		}
		if p.Context.CommentURL != e.CommentURL {
			t.Errorf("comment url not carried: %q", p.Context.CommentURL)
		}
	})

	t.Run("identical input gives identical bytes", func(t *testing.T) {
		e := issueOpened()
		e.Body = "## Requirements\n- Export as text\n- Must keep sideboard\n\nThanks"

		a, err := s.Synthesize(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := s.Synthesize(e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		aj, _ := json.Marshal(a)
		bj, _ := json.Marshal(b)
		if string(aj) != string(bj) {
			t.Errorf("synthesis is not deterministic:\n%s\n%s", aj, bj)
		}
		if prompt.Render(a) != prompt.Render(b) {
			t.Errorf("rendering is not deterministic")
		}
	})

	t.Run("unsupported kind", func(t *testing.T) {
		e := issueOpened()
		e.Kind = model.KindUnsupported
		if _, err := s.Synthesize(e); !errors.Is(err, prompt.ErrUnsupportedKind) {
			t.Errorf("expected ErrUnsupportedKind, got %v", err)
		}
	})

	t.Run("missing issue number", func(t *testing.T) {
		e := issueOpened()
		e.IssueNumber = 0
		if _, err := s.Synthesize(e); !errors.Is(err, prompt.ErrMissingIssueNumber) {
			t.Errorf("expected ErrMissingIssueNumber, got %v", err)
		}
	})
}

func TestRender(t *testing.T) {
	p, err := prompt.New().Synthesize(issueOpened())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := prompt.Render(p)

	for _, want := range []string{
		"Implement feature from issue #1: Test feature\n",
		"- Repository: Aleqsd/EDH-PodLog\n",
		"- Author: GROBimbo\n",
		"- Issue: #1 (https://github.com/Aleqsd/EDH-PodLog/issues/1)\n",
		"- Received: 2026-10-18T09:30:00Z\n",
		prompt.SectionRequirements + "\n- Add deck export to Moxfield\n",
		prompt.SectionOriginal + "\nAdd deck export to Moxfield\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q:\n%s", want, out)
		}
	}

	t.Run("no requirements", func(t *testing.T) {
		e := issueOpened()
		e.Body = "just thinking out loud"
		p, _ := prompt.New().Synthesize(e)
		if len(p.Requirements) != 0 {
			t.Fatalf("expected no requirements, got %q", p.Requirements)
		}
		if !strings.Contains(prompt.Render(p), "(none detected") {
			t.Errorf("expected placeholder line")
		}
	})
}
