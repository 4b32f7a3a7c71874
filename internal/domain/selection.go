package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Selection records that the user marked a phase as the one currently observed.
type Selection struct {
	ID         string
	Phase      PhaseIndex
	PhaseName  string
	SelectedAt time.Time
}

// NewSelection creates a selection record for phase at the given moment.
func NewSelection(c Cycle, phase PhaseIndex, at time.Time) (*Selection, error) {
	p, err := c.Phase(phase)
	if err != nil {
		return nil, fmt.Errorf("failed to create selection: %w", err)
	}
	return &Selection{
		ID:         uuid.New().String(),
		Phase:      phase,
		PhaseName:  p.Name,
		SelectedAt: at,
	}, nil
}

// PhaseTally pairs a phase with how many times it was selected.
type PhaseTally struct {
	Phase     PhaseIndex
	PhaseName string
	Count     int
}
