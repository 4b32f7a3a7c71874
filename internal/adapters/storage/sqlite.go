// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/eclipse-cli/internal/ports"
	"modernc.org/sqlite"
)

// ErrDuplicateSelection is returned when a selection ID is already journaled.
var ErrDuplicateSelection = errors.New("selection already journaled")

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db            *sql.DB
	selectionRepo ports.SelectionRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	storage := &sqliteStorage{
		db:            db,
		selectionRepo: newSelectionRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Selections returns the selection journal.
func (s *sqliteStorage) Selections() ports.SelectionRepository {
	return s.selectionRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS selections (
		id TEXT PRIMARY KEY,
		phase INTEGER NOT NULL,
		phase_name TEXT NOT NULL,
		selected_at_ns INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_selections_selected ON selections(selected_at_ns);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// SQLITE_CONSTRAINT_UNIQUE and SQLITE_CONSTRAINT_PRIMARYKEY
	return sqliteErr.Code() == 2067 || sqliteErr.Code() == 1555
}
