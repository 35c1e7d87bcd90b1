package dedup

import "time"

// Options configures retention and durability.
type Options struct {
	TTL         time.Duration // Zero keeps keys forever
	MaxKeys     int           // Zero means unbounded
	JournalPath string        // Empty keeps state in memory only
}
