package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aouyang1/repogallery/store"
)

const sessionSweepInterval = 10 * time.Minute

// SessionManager will periodically drop sessions that have been idle longer than the ttl
type SessionManager struct {
	db  *store.Database
	ttl time.Duration
}

func NewSessionManager(db *store.Database, ttl time.Duration) (*SessionManager, error) {
	if db == nil {
		return nil, errors.New("no database provided for session manager")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	return &SessionManager{
		db:  db,
		ttl: ttl,
	}, nil
}

func (s *SessionManager) prune(now time.Time) int64 {
	removed, err := s.db.PruneSessions(now.Add(-s.ttl))
	if err != nil {
		slog.Error("unable to prune sessions", "error", err)
		return 0
	}
	if removed > 0 {
		sessionsPruned.Add(float64(removed))
		slog.Info("pruned idle sessions", "count", removed, "ttl", s.ttl)
	}
	return removed
}

func (s *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	s.prune(time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.prune(now)
		}
	}
}
