package webhook

import "errors"

var (
	// ErrMalformedPayload is returned when a delivery body cannot be decoded into a GitHub event.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)
