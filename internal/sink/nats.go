package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// DefaultSubject is where prompt records are published when no subject is configured.
const DefaultSubject = "codex.prompt.synthesized"

// NATSSink publishes the JSON prompt record for an external CLI runner to pick up.
type NATSSink struct {
	bus     Publisher
	subject string
}

func NewNATSSink(bus Publisher, subject string) *NATSSink {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSSink{bus: bus, subject: subject}
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Write(ctx context.Context, p model.Prompt) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prompt record: %w", err)
	}
	if err := s.bus.Publish(ctx, s.subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.subject, err)
	}
	return nil
}
