// Package store provides the request-scoped persistence session that backs
// the unit-of-work pattern: repositories stage work against one shared
// change set, and Commit applies the whole set in a single transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.permitdesk.tech/internal/common/sqlite"
)

// ErrSessionClosed is returned when staging or committing on a closed session.
var ErrSessionClosed = errors.New("session closed")

// Op is one staged write. It runs inside the commit transaction and returns
// the number of rows it affected.
type Op func(ctx context.Context, tx *sql.Tx) (int64, error)

// Session owns the pending change set for one request. It is created per
// incoming request and must be closed unconditionally at request end;
// sessions are never shared across concurrent requests.
type Session struct {
	db *sql.DB

	mu      sync.Mutex
	pending []Op
	closed  bool
}

// NewSession creates a session over the shared database handle.
func NewSession(db *sql.DB) *Session {
	return &Session{db: db}
}

// DB exposes the underlying handle for reads. Reads do not join the pending
// change set; only staged writes are transactional.
func (s *Session) DB() *sql.DB {
	return s.db
}

// Stage appends a write to the pending change set.
func (s *Session) Stage(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.pending = append(s.pending, op)
	return nil
}

// PendingOps reports the number of staged writes.
func (s *Session) PendingOps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Commit applies every staged write in one transaction and returns the total
// count of affected rows. On failure the transaction is rolled back and the
// change set is preserved so the caller can inspect it; the request is
// expected to abort regardless.
func (s *Session) Commit(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionClosed
	}
	if len(s.pending) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var affected int64
	for _, op := range s.pending {
		n, err := op(ctx, tx)
		if err != nil {
			tx.Rollback()
			return 0, sqlite.ClassifyError(fmt.Errorf("commit failed: %w", err))
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return 0, sqlite.ClassifyError(fmt.Errorf("commit failed: %w", err))
	}

	s.pending = nil
	return affected, nil
}

// Close discards any uncommitted work and marks the session unusable.
// Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.closed = true
	return nil
}
