package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"go.permitdesk.tech/internal/common/repository"
	"go.permitdesk.tech/internal/common/sqlite"
	"go.permitdesk.tech/internal/config"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := sqlite.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func countRequests(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM permission_requests").Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

func insertOp(forename string, typeID int64) Op {
	return func(ctx context.Context, tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO permission_requests (employee_forename, employee_surname, permission_type_id, permission_date)
			 VALUES (?, ?, ?, ?)`,
			forename, "Tester", typeID, "2030-06-15")
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
}

func TestCommitNoPendingOps(t *testing.T) {
	session := NewSession(newTestDB(t))

	affected, err := session.Commit(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if affected != 0 {
		t.Errorf("Expected 0 affected rows, got %d", affected)
	}
}

func TestCommitAppliesStagedOps(t *testing.T) {
	db := newTestDB(t)
	session := NewSession(db)
	before := countRequests(t, db)

	if err := session.Stage(insertOp("Alice", 1)); err != nil {
		t.Fatalf("Failed to stage op: %v", err)
	}
	if err := session.Stage(insertOp("Bob", 2)); err != nil {
		t.Fatalf("Failed to stage op: %v", err)
	}
	if session.PendingOps() != 2 {
		t.Errorf("Expected 2 pending ops, got %d", session.PendingOps())
	}

	affected, err := session.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if affected != 2 {
		t.Errorf("Expected 2 affected rows, got %d", affected)
	}
	if session.PendingOps() != 0 {
		t.Errorf("Expected change set cleared after commit, got %d pending", session.PendingOps())
	}
	if got := countRequests(t, db); got != before+2 {
		t.Errorf("Expected %d rows, got %d", before+2, got)
	}
}

func TestCommitRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	session := NewSession(db)
	before := countRequests(t, db)

	session.Stage(insertOp("Alice", 1))
	// Second op violates the foreign key, so the first insert must not land.
	session.Stage(insertOp("Bob", 999))

	_, err := session.Commit(context.Background())
	if err == nil {
		t.Fatal("Expected commit to fail")
	}
	if !errors.Is(err, repository.ErrForeignKey) {
		t.Errorf("Expected foreign key classification, got %v", err)
	}
	if got := countRequests(t, db); got != before {
		t.Errorf("Expected rollback to preserve %d rows, got %d", before, got)
	}
	if session.PendingOps() != 2 {
		t.Errorf("Expected change set preserved after failure, got %d pending", session.PendingOps())
	}
}

func TestStageAfterClose(t *testing.T) {
	session := NewSession(newTestDB(t))
	session.Stage(insertOp("Alice", 1))

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := session.Stage(insertOp("Bob", 1)); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Expected ErrSessionClosed, got %v", err)
	}
	if _, err := session.Commit(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Expected ErrSessionClosed, got %v", err)
	}
}

func TestCloseDiscardsPendingWork(t *testing.T) {
	db := newTestDB(t)
	session := NewSession(db)
	before := countRequests(t, db)

	session.Stage(insertOp("Alice", 1))
	session.Close()

	if session.PendingOps() != 0 {
		t.Errorf("Expected pending ops discarded, got %d", session.PendingOps())
	}
	if got := countRequests(t, db); got != before {
		t.Errorf("Expected no rows written, got %d extra", got-before)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	session := NewSession(newTestDB(t))

	if err := session.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
}
