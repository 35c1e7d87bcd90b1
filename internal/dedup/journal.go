package dedup

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	opClaim   = "+"
	opRelease = "-"
)

type journalEntry struct {
	key string
	at  time.Time
}

// journal is an append-only log of claims and releases. Each line holds the op ("+" claim, "-" release),
// the unix-nano time and the quoted key, e.g. `+ 1760779800000000000 "delivery:72d3162e"`.
type journal struct {
	f *os.File
}

// replayJournal folds the journal at path into the set of live keys.
// A missing file is an empty journal; a torn or unreadable line is skipped.
func replayJournal(path string) (map[string]time.Time, error) {
	entries := make(map[string]time.Time)

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		op, key, at, ok := parseJournalLine(scanner.Text())
		if !ok {
			continue
		}
		switch op {
		case opClaim:
			entries[key] = at
		case opRelease:
			delete(entries, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseJournalLine(line string) (op, key string, at time.Time, ok bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", "", time.Time{}, false
	}
	if parts[0] != opClaim && parts[0] != opRelease {
		return "", "", time.Time{}, false
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", "", time.Time{}, false
	}
	key, err = strconv.Unquote(parts[2])
	if err != nil {
		return "", "", time.Time{}, false
	}
	return parts[0], key, time.Unix(0, nanos), true
}

func formatJournalLine(op, key string, at time.Time) string {
	return fmt.Sprintf("%s %d %s\n", op, at.UnixNano(), strconv.Quote(key))
}

// openJournal rewrites path to hold only live, then opens it for appending.
// The rewrite goes through a temp file and rename, so a crash leaves either the old or the new journal.
func openJournal(path string, live []journalEntry) (*journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(tmp)
	for _, e := range live {
		if _, err := w.WriteString(formatJournalLine(opClaim, e.key, e.at)); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &journal{f: f}, nil
}

func (j *journal) append(op, key string, at time.Time) error {
	if _, err := j.f.WriteString(formatJournalLine(op, key, at)); err != nil {
		return err
	}
	return j.f.Sync()
}

func (j *journal) close() error {
	return j.f.Close()
}
