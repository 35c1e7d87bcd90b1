package prompt

import "errors"

var (
	ErrUnsupportedKind    = errors.New("event kind cannot be synthesized")
	ErrMissingIssueNumber = errors.New("event has no issue number")
)
