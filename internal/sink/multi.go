package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleqsd/github-codex-bot/internal/model"
)

// Multi writes to every sink in order. One sink failing does not stop the others.
type Multi struct {
	writers []Writer
}

func NewMulti(writers ...Writer) *Multi {
	return &Multi{writers: writers}
}

func (m *Multi) Name() string { return "multi" }

// Write returns the joined errors of all failing sinks, each prefixed with the sink name.
func (m *Multi) Write(ctx context.Context, p model.Prompt) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Write(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
		}
	}
	return errors.Join(errs...)
}
