package model

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// EventKind is the typed kind of a GitHub delivery.
type EventKind string

const (
	KindIssueOpened         EventKind = "IssueOpened"
	KindIssueCommentCreated EventKind = "IssueCommentCreated"
	KindUnsupported         EventKind = "Unsupported"
)

// GitHub event type header values.
const (
	EventTypeIssues       = "issues"
	EventTypeIssueComment = "issue_comment"
)

// Actions accepted per event type.
const (
	ActionOpened  = "opened"
	ActionCreated = "created"
)

// GitHubEvent is the parsed form of one webhook delivery.
type GitHubEvent struct {
	Kind        EventKind // Typed kind derived from event type + action
	EventType   string    // X-GitHub-Event header
	Repository  string    // owner/name
	ActorLogin  string    // sender.login
	IssueNumber int       // issue.number
	Title       string    // issue.title
	Body        string    // Issue body or comment body
	DeliveryID  string    // X-GitHub-Delivery header
	Action      string    // Raw payload action
	IssueURL    string    // issue.html_url
	CommentURL  string    // comment.html_url (comments only)
	ReceivedAt  time.Time // When the delivery arrived
}

// IdempotencyKey identifies the logical event for deduplication.
// The delivery id is preferred; redeliveries of the same payload reuse it.
// Without one, the comment URL (which carries the comment id) separates identical comments.
func (e GitHubEvent) IdempotencyKey() string {
	if e.DeliveryID != "" {
		return "delivery:" + e.DeliveryID
	}
	h := blake3.New()
	if e.CommentURL != "" {
		h.Write([]byte(e.CommentURL))
		h.Write([]byte{0})
	}
	h.Write([]byte(e.Body))
	return fmt.Sprintf("event:%s#%d:%s:%s", e.Repository, e.IssueNumber, e.Action, hex.EncodeToString(h.Sum(nil)))
}
