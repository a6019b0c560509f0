// Package sqlite implements the persistence repositories on SQLite via the
// pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/example/staybook/internal/persistence"
)

// DB wraps the shared connection handle the repositories operate on.
type DB struct {
	db *sql.DB
}

// Open establishes the SQLite connection for the given DSN and enables
// foreign key enforcement.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// The modernc driver serialises writes; a single connection avoids
	// SQLITE_BUSY churn under the write rates a booking service sees.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return &DB{db: db}, nil
}

// Close releases the underlying connection handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping verifies the connection is usable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// migrations are applied in order exactly once; the schema_migrations table
// records the last applied index.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		display_name  TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		is_admin      INTEGER NOT NULL DEFAULT 0,
		disabled      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		revoked_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL CHECK (length(title) > 0),
		location   TEXT NOT NULL DEFAULT '',
		base_price REAL NOT NULL DEFAULT 0 CHECK (base_price >= 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id            TEXT PRIMARY KEY,
		unit_id       TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		guest_label   TEXT NOT NULL CHECK (length(guest_label) > 0),
		check_in_raw  TEXT NOT NULL,
		check_out_raw TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'booked'
			CHECK (status IN ('booked', 'pending', 'available', 'blocked')),
		total_amount  REAL NOT NULL DEFAULT 0,
		reference_id  TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_unit ON reservations(unit_id)`,
	`CREATE TABLE IF NOT EXISTS block_rules (
		id         TEXT PRIMARY KEY,
		unit_id    TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		label      TEXT NOT NULL DEFAULT '',
		frequency  INTEGER NOT NULL,
		weekdays   TEXT NOT NULL DEFAULT '',
		starts_on  TEXT NOT NULL,
		ends_on    TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Migrate applies any schema statements not yet recorded as applied.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("sqlite: init migrations table: %w", err)
	}

	var current int
	if err := d.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read migration version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("sqlite: begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: apply migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES (?)`, i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sqlite: commit migration %d: %w", i+1, err)
		}
	}

	return nil
}

// mapError translates driver errors into the persistence sentinels services
// branch on. The modernc driver exposes constraint failures only through the
// error text.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return persistence.ErrConstraintViolation
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return persistence.ErrConstraintViolation
	}
	return err
}
