package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Aleqsd/github-codex-bot/internal/model"
	"github.com/Aleqsd/github-codex-bot/internal/prompt"
)

const (
	frameBegin = "=== BEGIN PROMPT %s ===\n"
	frameEnd   = "=== END PROMPT %s ===\n\n"
)

// FileSink appends framed prompts to a shared log and writes one JSON record per prompt.
// A reader should only trust log frames that have both markers.
type FileSink struct {
	mu        sync.Mutex
	logPath   string
	recordDir string
}

// NewFileSink creates the parent directories of logPath and recordDir.
// An empty recordDir disables JSON records.
func NewFileSink(logPath, recordDir string) (*FileSink, error) {
	if logPath == "" {
		return nil, fmt.Errorf("prompt log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create prompt log directory: %w", err)
	}
	if recordDir != "" {
		if err := os.MkdirAll(recordDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create prompt record directory: %w", err)
		}
	}
	return &FileSink{logPath: logPath, recordDir: recordDir}, nil
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Write(ctx context.Context, p model.Prompt) error {
	if s.recordDir != "" {
		record, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal prompt record: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(s.recordDir, p.ID+".json"), record); err != nil {
			return fmt.Errorf("failed to write prompt record: %w", err)
		}
	}

	frame := fmt.Sprintf(frameBegin, p.ID) + prompt.Render(p) + fmt.Sprintf(frameEnd, p.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open prompt log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(frame); err != nil {
		return fmt.Errorf("failed to append prompt log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync prompt log: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
