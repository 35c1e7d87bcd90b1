package dedup

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	pkgLog "github.com/Aleqsd/github-codex-bot/pkg/log"
)

type store struct {
	mu      sync.Mutex
	keys    *expirable.LRU[string, time.Time]
	journal *journal
	l       pkgLog.Logger
}

// New builds a Store. With a journal path, previously claimed keys are restored
// and the journal is compacted before new claims are appended.
func New(ctx context.Context, l pkgLog.Logger, opt Options) (Store, error) {
	s := &store{
		keys: expirable.NewLRU[string, time.Time](opt.MaxKeys, nil, opt.TTL),
		l:    l,
	}

	if opt.JournalPath == "" {
		l.Warn(ctx, "dedup: no journal configured, seen deliveries are forgotten on restart")
		return s, nil
	}

	entries, err := replayJournal(opt.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to replay dedup journal: %w", err)
	}

	live := make([]journalEntry, 0, len(entries))
	cutoff := time.Time{}
	if opt.TTL > 0 {
		cutoff = time.Now().Add(-opt.TTL)
	}
	for key, at := range entries {
		if at.Before(cutoff) {
			continue
		}
		live = append(live, journalEntry{key: key, at: at})
	}
	// Oldest first so a size bound keeps the newest keys.
	sort.Slice(live, func(i, j int) bool { return live[i].at.Before(live[j].at) })
	for _, e := range live {
		s.keys.Add(e.key, e.at)
	}

	j, err := openJournal(opt.JournalPath, live)
	if err != nil {
		return nil, fmt.Errorf("failed to open dedup journal: %w", err)
	}
	s.journal = j

	l.Infof(ctx, "dedup: restored %d key(s) from %s", s.keys.Len(), opt.JournalPath)
	return s, nil
}

func (s *store) Claim(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys.Peek(key); ok {
		return false
	}

	now := time.Now()
	s.keys.Add(key, now)

	if s.journal != nil {
		if err := s.journal.append(opClaim, key, now); err != nil {
			s.l.Errorf(ctx, "dedup: failed to persist claim for %s: %v", key, err)
		}
	}
	return true
}

func (s *store) Seen(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.keys.Peek(key)
	return ok
}

func (s *store) Release(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keys.Remove(key) {
		return
	}
	if s.journal != nil {
		if err := s.journal.append(opRelease, key, time.Now()); err != nil {
			s.l.Errorf(ctx, "dedup: failed to persist release for %s: %v", key, err)
		}
	}
}

func (s *store) Len() int {
	return s.keys.Len()
}

func (s *store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.journal == nil {
		return nil
	}
	return s.journal.close()
}
