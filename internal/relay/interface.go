package relay

import "context"

// UseCase turns in-scope events into emitted prompts.
type UseCase interface {
	// Relay claims the event's idempotency key, synthesizes the prompt and writes it to the sink.
	// Sink failures are reported in the output, not as an error: the event stays consumed.
	Relay(ctx context.Context, input RelayInput) (RelayOutput, error)
}
