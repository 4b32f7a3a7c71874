package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/ports"
)

// selectionRepository implements ports.SelectionRepository using SQLite.
type selectionRepository struct {
	db *sql.DB
}

// newSelectionRepository creates a new selection repository.
func newSelectionRepository(db *sql.DB) ports.SelectionRepository {
	return &selectionRepository{db: db}
}

// Save appends a selection to the journal.
func (r *selectionRepository) Save(ctx context.Context, selection *domain.Selection) error {
	query := `
		INSERT INTO selections (id, phase, phase_name, selected_at_ns)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		selection.ID,
		int(selection.Phase),
		selection.PhaseName,
		selection.SelectedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateSelection, selection.ID)
		}
		return fmt.Errorf("failed to save selection: %w", err)
	}

	return nil
}

// FindRecent returns up to limit selections, newest first.
func (r *selectionRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Selection, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT id, phase, phase_name, selected_at_ns
		FROM selections
		ORDER BY selected_at_ns DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var selections []*domain.Selection
	for rows.Next() {
		var (
			s       domain.Selection
			phase   int
			atNanos int64
		)
		if err := rows.Scan(&s.ID, &phase, &s.PhaseName, &atNanos); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		s.Phase = domain.PhaseIndex(phase)
		s.SelectedAt = time.Unix(0, atNanos)
		selections = append(selections, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selections: %w", err)
	}
	return selections, nil
}

// CountByPhase returns how many times each phase was selected, in cycle order.
func (r *selectionRepository) CountByPhase(ctx context.Context) ([]domain.PhaseTally, error) {
	query := `
		SELECT phase, phase_name, COUNT(*)
		FROM selections
		GROUP BY phase, phase_name
		ORDER BY phase
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count selections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tallies []domain.PhaseTally
	for rows.Next() {
		var (
			t     domain.PhaseTally
			phase int
		)
		if err := rows.Scan(&phase, &t.PhaseName, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		t.Phase = domain.PhaseIndex(phase)
		tallies = append(tallies, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tallies: %w", err)
	}
	return tallies, nil
}
