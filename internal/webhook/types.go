package webhook

import (
	"time"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute per source, 0 disables
}

// ScopeConfig decides which events are worth a prompt.
type ScopeConfig struct {
	WatchUser string // Only events authored by this login are processed
	Repo      string // owner/name of the watched repository
}

// Config is the dependency bag for NewHandler.
type Config struct {
	Security SecurityConfig
	Scope    ScopeConfig
}

// ClassifyInput is one raw delivery as received on the wire.
type ClassifyInput struct {
	EventType  string // X-GitHub-Event
	DeliveryID string // X-GitHub-Delivery
	Body       []byte
	ReceivedAt time.Time
}

// Classification is the outcome of classifying a delivery.
type Classification struct {
	Event   model.GitHubEvent
	InScope bool
	Reason  string // Set when InScope is false
	Detail  string
}
