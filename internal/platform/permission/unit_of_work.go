package permission

import (
	"context"
	"database/sql"

	"go.permitdesk.tech/internal/platform/store"
)

// UnitOfWork groups repository operations into a single atomic commit
// against the system of record and owns the persistence session lifetime.
//
// One unit of work is created per incoming request and must be closed at
// request end on every exit path. Repositories are lazily constructed,
// session-scoped, and share one pending change set: staged Adds, Updates
// and Removes become durable together at Commit, or not at all.
type UnitOfWork interface {
	// Requests returns the session-scoped permission request repository.
	// At most one instance exists per unit of work.
	Requests() Repository

	// Types returns the session-scoped permission type repository.
	// At most one instance exists per unit of work.
	Types() TypeRepository

	// Commit applies the pending change set in one transaction and returns
	// the count of affected rows. A failure aborts the current handler.
	Commit(ctx context.Context) (int64, error)

	// Close releases the session, discarding uncommitted work. It must be
	// called unconditionally at request end, success or failure.
	Close() error
}

type unitOfWork struct {
	session *store.Session

	requests Repository
	types    TypeRepository
}

// NewUnitOfWork creates a unit of work over a fresh session.
func NewUnitOfWork(db *sql.DB) UnitOfWork {
	return &unitOfWork{session: store.NewSession(db)}
}

func (u *unitOfWork) Requests() Repository {
	if u.requests == nil {
		u.requests = NewRequestRepository(u.session)
	}
	return u.requests
}

func (u *unitOfWork) Types() TypeRepository {
	if u.types == nil {
		u.types = NewTypeRepository(u.session)
	}
	return u.types
}

func (u *unitOfWork) Commit(ctx context.Context) (int64, error) {
	return u.session.Commit(ctx)
}

func (u *unitOfWork) Close() error {
	return u.session.Close()
}

// Factory creates one unit of work per request.
type Factory func() UnitOfWork

// NewFactory returns a Factory bound to the shared database handle.
func NewFactory(db *sql.DB) Factory {
	return func() UnitOfWork {
		return NewUnitOfWork(db)
	}
}
