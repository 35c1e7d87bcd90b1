package dedup

import "context"

// Store remembers which idempotency keys already produced a prompt.
type Store interface {
	// Claim marks key as seen and reports whether this call was the first to do so.
	// Check and mark happen under one lock, so concurrent claims of a key yield exactly one true.
	Claim(ctx context.Context, key string) bool

	// Seen reports whether key is currently recorded.
	Seen(ctx context.Context, key string) bool

	// Release forgets a claim whose prompt could not be synthesized.
	Release(ctx context.Context, key string)

	// Len returns the number of recorded keys.
	Len() int

	Close() error
}
