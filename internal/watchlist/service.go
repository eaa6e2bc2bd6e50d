// Package watchlist manages the user's persisted set of favorited records.
// Favoriting snapshots the live record, so later live updates never
// retroactively change a watchlist entry. Every mutation is persisted before
// the in-memory set is considered authoritative; on a persistence failure
// the session still reflects the toggle and the error is surfaced so the
// collaborator can tell the user the favorite was not saved.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/storage"
)

// Service holds the in-memory watchlist backed by a persistent store.
type Service struct {
	store  storage.WatchlistStore
	tokens storage.TokenStore
	now    func() int64
	log    *logrus.Entry

	mu      sync.RWMutex
	entries []domain.WatchlistEntry
}

// Options contains configuration for creating a Service.
type Options struct {
	Store  storage.WatchlistStore
	Tokens storage.TokenStore
	// Now returns the current Unix time in milliseconds.
	Now    func() int64
	Logger *logrus.Entry
}

// NewService creates a watchlist service. Call Load before serving.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		store:  opts.Store,
		tokens: opts.Tokens,
		now:    now,
		log:    log.WithField("component", "watchlist"),
	}
}

// Load reads the persisted watchlist once at process start.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.log.WithField("count", len(entries)).Info("watchlist loaded")
	return nil
}

// Toggle adds the URI's record snapshot when absent, removes the entry when
// present. Returns whether the URI is favorited after the toggle. The new
// list is written to the store first; if that write fails, the in-memory
// toggle still applies for the current session and the error is returned.
func (s *Service) Toggle(ctx context.Context, uri string) (bool, error) {
	if uri == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, added, err := s.toggled(ctx, uri)
	if err != nil {
		return false, err
	}

	saveErr := s.store.Save(ctx, next)
	s.entries = next

	action := "remove"
	if added {
		action = "add"
	}
	observability.RecordWatchlistToggle(action)

	if saveErr != nil {
		observability.RecordWatchlistError()
		s.log.WithError(saveErr).Warn("watchlist persist failed, session state kept")
		return added, fmt.Errorf("persist watchlist: %w", saveErr)
	}
	return added, nil
}

// toggled computes the entry list after toggling uri. Caller holds the lock.
func (s *Service) toggled(ctx context.Context, uri string) ([]domain.WatchlistEntry, bool, error) {
	for i, e := range s.entries {
		if e.URI == uri {
			next := make([]domain.WatchlistEntry, 0, len(s.entries)-1)
			next = append(next, s.entries[:i]...)
			next = append(next, s.entries[i+1:]...)
			return next, false, nil
		}
	}

	rec, err := s.tokens.GetByURI(ctx, uri)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, storage.ErrNotFound
		}
		return nil, false, fmt.Errorf("snapshot record: %w", err)
	}

	next := make([]domain.WatchlistEntry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, domain.WatchlistEntry{
		URI:     uri,
		Record:  *rec,
		AddedAt: s.now(),
	})
	return next, true, nil
}

// Entries returns a snapshot of the watchlist in add order.
func (s *Service) Entries() []domain.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]domain.WatchlistEntry, len(s.entries))
	copy(cp, s.entries)
	return cp
}

// URIs returns the favorited URI set, keyed for view derivation.
func (s *Service) URIs() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		out[e.URI] = true
	}
	return out
}
