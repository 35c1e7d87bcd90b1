package model

import "time"

// PromptContext is the source metadata attached to a prompt.
type PromptContext struct {
	Repository  string    `json:"repository"`
	Actor       string    `json:"actor"`
	IssueNumber int       `json:"issue_number"`
	IssueURL    string    `json:"issue_url,omitempty"`
	CommentURL  string    `json:"comment_url,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// Prompt is the synthesized artifact handed to sinks. Built once, never modified.
type Prompt struct {
	ID           string        `json:"id"`
	Key          string        `json:"key"`
	Kind         EventKind     `json:"kind"`
	Header       string        `json:"header"`
	Context      PromptContext `json:"context"`
	Requirements []string      `json:"requirements"`
	RawBody      string        `json:"raw_body"`
}
