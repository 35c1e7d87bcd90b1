package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// Classifier decides whether a delivery is one the watched user wants turned into a prompt.
type Classifier interface {
	Classify(input ClassifyInput) (Classification, error)
}

// githubPayload is the subset of issues / issue_comment payloads the relay reads.
type githubPayload struct {
	Action string `json:"action"`
	Sender struct {
		Login string `json:"login"`
	} `json:"sender"`
	Repository *struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	Issue *struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		Body    string `json:"body"`
		HTMLURL string `json:"html_url"`
	} `json:"issue"`
	Comment *struct {
		Body    string `json:"body"`
		HTMLURL string `json:"html_url"`
	} `json:"comment"`
}

type githubClassifier struct {
	scope ScopeConfig
}

// NewClassifier returns the GitHub issue/comment classifier for scope.
func NewClassifier(scope ScopeConfig) Classifier {
	return &githubClassifier{scope: scope}
}

func (p *githubClassifier) Classify(input ClassifyInput) (Classification, error) {
	if !json.Valid(input.Body) {
		return Classification{}, fmt.Errorf("%w: body is not valid JSON", ErrMalformedPayload)
	}

	event := model.GitHubEvent{
		Kind:       model.KindUnsupported,
		EventType:  input.EventType,
		DeliveryID: input.DeliveryID,
		ReceivedAt: input.ReceivedAt,
	}

	if input.EventType != model.EventTypeIssues && input.EventType != model.EventTypeIssueComment {
		return ignored(event, ReasonUnsupportedEventKind, fmt.Sprintf("event type %q is not handled", input.EventType)), nil
	}

	var payload githubPayload
	if err := json.Unmarshal(input.Body, &payload); err != nil {
		return Classification{}, fmt.Errorf("%w: failed to parse %s event: %v", ErrMalformedPayload, input.EventType, err)
	}
	if payload.Issue == nil || payload.Issue.Number <= 0 {
		return Classification{}, fmt.Errorf("%w: %s event without issue number", ErrMalformedPayload, input.EventType)
	}
	if input.EventType == model.EventTypeIssueComment && payload.Comment == nil {
		return Classification{}, fmt.Errorf("%w: issue_comment event without comment", ErrMalformedPayload)
	}

	event.Action = payload.Action
	event.ActorLogin = payload.Sender.Login
	event.IssueNumber = payload.Issue.Number
	event.Title = payload.Issue.Title
	event.IssueURL = payload.Issue.HTMLURL

	// Deliveries without a repository block are attributed to the watched one.
	event.Repository = p.scope.Repo
	if payload.Repository != nil && payload.Repository.FullName != "" {
		event.Repository = payload.Repository.FullName
	}
	if event.IssueURL == "" {
		event.IssueURL = fmt.Sprintf("https://github.com/%s/issues/%d", event.Repository, event.IssueNumber)
	}

	switch input.EventType {
	case model.EventTypeIssues:
		event.Body = payload.Issue.Body
		if payload.Action == model.ActionOpened {
			event.Kind = model.KindIssueOpened
		}
	case model.EventTypeIssueComment:
		event.Body = payload.Comment.Body
		event.CommentURL = payload.Comment.HTMLURL
		if payload.Action == model.ActionCreated {
			event.Kind = model.KindIssueCommentCreated
		}
	}

	// Repository names are case-insensitive on GitHub, logins are compared exactly.
	if !strings.EqualFold(event.Repository, p.scope.Repo) {
		return ignored(event, ReasonRepositoryMismatch,
			fmt.Sprintf("repository %q is not %q", event.Repository, p.scope.Repo)), nil
	}
	if event.ActorLogin != p.scope.WatchUser {
		return ignored(event, ReasonActorMismatch,
			fmt.Sprintf("sender %q is not the watched user", event.ActorLogin)), nil
	}
	if event.Kind == model.KindUnsupported {
		return ignored(event, ReasonActionNotAllowed,
			fmt.Sprintf("action %q is not handled for %s", event.Action, event.EventType)), nil
	}

	return Classification{Event: event, InScope: true}, nil
}

func ignored(event model.GitHubEvent, reason, detail string) Classification {
	return Classification{
		Event:   event,
		InScope: false,
		Reason:  reason,
		Detail:  detail,
	}
}
