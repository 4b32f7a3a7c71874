// Package ports defines the interfaces (driven and driving ports)
// for the eclipse application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/eclipse-cli/internal/domain"
)

// SelectionRepository defines the interface for the selection journal.
// This is a driven port (implemented by adapters).
type SelectionRepository interface {
	// Save appends a selection to the journal.
	Save(ctx context.Context, selection *domain.Selection) error

	// FindRecent returns up to limit selections, newest first.
	FindRecent(ctx context.Context, limit int) ([]*domain.Selection, error)

	// CountByPhase returns how many times each phase was selected.
	CountByPhase(ctx context.Context) ([]domain.PhaseTally, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Selections provides access to the selection journal.
	Selections() SelectionRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
