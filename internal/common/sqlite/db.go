// Package sqlite owns the relational store connection, schema, and seed data.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"go.permitdesk.tech/internal/common/repository"
	"go.permitdesk.tech/internal/config"
)

// Schema is the authoritative schema for the system of record.
//
// Name columns are capped at 100 characters, matching the validation rules
// exactly so a value can never pass validation and then fail at the storage
// boundary. The foreign key is RESTRICT so a permission type cannot be
// deleted while permissions reference it.
const Schema = `
CREATE TABLE IF NOT EXISTS permission_types (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL CHECK (length(description) > 0 AND length(description) <= 100)
);

CREATE INDEX IF NOT EXISTS idx_permission_types_description
    ON permission_types(description);

CREATE TABLE IF NOT EXISTS permission_requests (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    employee_forename  TEXT NOT NULL CHECK (length(employee_forename) > 0 AND length(employee_forename) <= 100),
    employee_surname   TEXT NOT NULL CHECK (length(employee_surname) > 0 AND length(employee_surname) <= 100),
    permission_type_id INTEGER NOT NULL REFERENCES permission_types(id) ON DELETE RESTRICT,
    permission_date    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_permission_requests_type
    ON permission_requests(permission_type_id);
`

// Open opens the SQLite database, applies the schema, and seeds reference
// data. The returned handle is safe for concurrent use; each request gets
// its own unit-of-work session on top of it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	path := cfg.Path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		path += "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	} else {
		path += "?_foreign_keys=ON"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := Seed(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("Connected to SQLite", "path", cfg.Path)

	return db, nil
}

// Migrate applies the schema. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Seed inserts the reference permission types and one sample permission.
// Idempotent: rows are only inserted when their table is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	var typeCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM permission_types").Scan(&typeCount); err != nil {
		return fmt.Errorf("failed to count permission types: %w", err)
	}

	if typeCount == 0 {
		descriptions := []string{"First type", "Second type", "Third type", "Fourth type"}
		for _, d := range descriptions {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO permission_types (description) VALUES (?)", d); err != nil {
				return fmt.Errorf("failed to seed permission types: %w", err)
			}
		}
		slog.Info("Seeded permission types", "count", len(descriptions))
	}

	var reqCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM permission_requests").Scan(&reqCount); err != nil {
		return fmt.Errorf("failed to count permission requests: %w", err)
	}

	if reqCount == 0 {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO permission_requests (employee_forename, employee_surname, permission_type_id, permission_date)
			 VALUES (?, ?, ?, ?)`,
			"Forename", "Surname", 1, "2000-01-01"); err != nil {
			return fmt.Errorf("failed to seed sample permission: %w", err)
		}
		slog.Info("Seeded sample permission request")
	}

	return nil
}

// ClassifyError maps driver-level failures onto the shared repository
// sentinels so callers can errors.Is them without importing the driver.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", repository.ErrForeignKey, err)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", repository.ErrDuplicateKey, err)
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", repository.ErrNotFound, err)
	}

	return err
}
