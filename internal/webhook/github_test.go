package webhook

import (
	"errors"
	"testing"
	"time"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

const (
	testRepo = "Aleqsd/EDH-PodLog"
	testUser = "GROBimbo"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(ScopeConfig{WatchUser: testUser, Repo: testRepo})
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		eventType string
		body      string
		wantErr   bool
		inScope   bool
		reason    string
		kind      model.EventKind
	}{
		{
			name:      "issue opened",
			eventType: "issues",
			body:      `{"action":"opened","sender":{"login":"GROBimbo"},"issue":{"number":1,"title":"Test feature","body":"Add deck export to Moxfield"}}`,
			inScope:   true,
			kind:      model.KindIssueOpened,
		},
		{
			name:      "comment created",
			eventType: "issue_comment",
			body:      `{"action":"created","sender":{"login":"GROBimbo"},"repository":{"full_name":"Aleqsd/EDH-PodLog"},"issue":{"number":4,"title":"t"},"comment":{"body":"Also support CSV","html_url":"https://github.com/Aleqsd/EDH-PodLog/issues/4#issuecomment-9"}}`,
			inScope:   true,
			kind:      model.KindIssueCommentCreated,
		},
		{
			name:      "other sender",
			eventType: "issues",
			body:      `{"action":"opened","sender":{"login":"someone-else"},"issue":{"number":1,"title":"x"}}`,
			reason:    ReasonActorMismatch,
		},
		{
			name:      "actor match is case sensitive",
			eventType: "issues",
			body:      `{"action":"opened","sender":{"login":"grobimbo"},"issue":{"number":1,"title":"x"}}`,
			reason:    ReasonActorMismatch,
		},
		{
			name:      "closed issue",
			eventType: "issues",
			body:      `{"action":"closed","sender":{"login":"GROBimbo"},"issue":{"number":1,"title":"x"}}`,
			reason:    ReasonActionNotAllowed,
		},
		{
			name:      "edited comment",
			eventType: "issue_comment",
			body:      `{"action":"edited","sender":{"login":"GROBimbo"},"issue":{"number":1},"comment":{"body":"x"}}`,
			reason:    ReasonActionNotAllowed,
		},
		{
			name:      "other repository",
			eventType: "issues",
			body:      `{"action":"opened","sender":{"login":"GROBimbo"},"repository":{"full_name":"Aleqsd/other"},"issue":{"number":1}}`,
			reason:    ReasonRepositoryMismatch,
		},
		{
			name:      "repository case differs",
			eventType: "issues",
			body:      `{"action":"opened","sender":{"login":"GROBimbo"},"repository":{"full_name":"aleqsd/edh-podlog"},"issue":{"number":1}}`,
			inScope:   true,
			kind:      model.KindIssueOpened,
		},
		{
			name:      "push event",
			eventType: "push",
			body:      `{"ref":"refs/heads/main"}`,
			reason:    ReasonUnsupportedEventKind,
		},
		{
			name:      "ping without event header",
			eventType: "",
			body:      `{"zen":"Keep it logically awesome."}`,
			reason:    ReasonUnsupportedEventKind,
		},
		{name: "invalid json", eventType: "issues", body: `{not json`, wantErr: true},
		{name: "invalid json on unsupported type", eventType: "push", body: `nope`, wantErr: true},
		{name: "missing issue", eventType: "issues", body: `{"action":"opened","sender":{"login":"GROBimbo"}}`, wantErr: true},
		{name: "wrong shape", eventType: "issues", body: `{"action":"opened","issue":{"number":"one"}}`, wantErr: true},
		{name: "comment without comment", eventType: "issue_comment", body: `{"action":"created","issue":{"number":2}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(ClassifyInput{
				EventType:  tt.eventType,
				DeliveryID: "d-1",
				Body:       []byte(tt.body),
				ReceivedAt: at,
			})
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPayload) {
					t.Fatalf("expected ErrMalformedPayload, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.InScope != tt.inScope {
				t.Fatalf("InScope = %v, want %v (reason %s)", got.InScope, tt.inScope, got.Reason)
			}
			if got.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.reason)
			}
			if tt.inScope && got.Event.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", got.Event.Kind, tt.kind)
			}
		})
	}
}

func TestClassifyFields(t *testing.T) {
	c := NewClassifier(ScopeConfig{WatchUser: testUser, Repo: testRepo})
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	t.Run("issue without repository block", func(t *testing.T) {
		got, err := c.Classify(ClassifyInput{
			EventType:  "issues",
			DeliveryID: "abc",
			Body:       []byte(`{"action":"opened","sender":{"login":"GROBimbo"},"issue":{"number":1,"title":"Test feature","body":"Add deck export to Moxfield"}}`),
			ReceivedAt: at,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		e := got.Event
		if e.Repository != testRepo {
			t.Errorf("Repository = %q, want %q", e.Repository, testRepo)
		}
		if e.IssueURL != "https://github.com/Aleqsd/EDH-PodLog/issues/1" {
			t.Errorf("unexpected IssueURL %q", e.IssueURL)
		}
		if e.Body != "Add deck export to Moxfield" || e.Title != "Test feature" {
			t.Errorf("unexpected title/body %q / %q", e.Title, e.Body)
		}
		if e.DeliveryID != "abc" || !e.ReceivedAt.Equal(at) {
			t.Errorf("delivery metadata not carried: %+v", e)
		}
	})

	t.Run("comment body replaces issue body", func(t *testing.T) {
		got, err := c.Classify(ClassifyInput{
			EventType: "issue_comment",
			Body:      []byte(`{"action":"created","sender":{"login":"GROBimbo"},"issue":{"number":4,"body":"issue text","html_url":"https://github.com/Aleqsd/EDH-PodLog/issues/4"},"comment":{"body":"comment text","html_url":"https://github.com/Aleqsd/EDH-PodLog/issues/4#issuecomment-1"}}`),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Event.Body != "comment text" {
			t.Errorf("Body = %q, want comment text", got.Event.Body)
		}
		if got.Event.CommentURL == "" || got.Event.IssueURL != "https://github.com/Aleqsd/EDH-PodLog/issues/4" {
			t.Errorf("urls not carried: %+v", got.Event)
		}
	})

	t.Run("null issue body", func(t *testing.T) {
		got, err := c.Classify(ClassifyInput{
			EventType: "issues",
			Body:      []byte(`{"action":"opened","sender":{"login":"GROBimbo"},"issue":{"number":3,"title":"t","body":null}}`),
		})
		if err != nil || !got.InScope || got.Event.Body != "" {
			t.Errorf("expected in-scope event with empty body, got %+v, %v", got, err)
		}
	})
}
