package ports

import (
	"context"

	"github.com/xvierd/eclipse-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides tracker access for MCP tools.
// This is a driven port (implemented by the services layer).
type MCPStateProvider interface {
	PhaseTracker

	// Resolve maps user text (position, name or fuzzy name) to a phase.
	Resolve(input string) (domain.PhaseIndex, error)

	// History returns the most recent journaled selections.
	History(ctx context.Context, limit int) ([]*domain.Selection, error)

	// Tally returns per-phase selection counts from the journal.
	Tally(ctx context.Context) ([]domain.PhaseTally, error)
}
