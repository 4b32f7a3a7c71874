// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/ports"
)

// TrackerService owns the tracking state for one display.
type TrackerService struct {
	mu      sync.Mutex
	cycle   domain.Cycle
	state   domain.CycleState
	clock   ports.Clock
	storage ports.Storage
}

// NewTrackerService creates a tracker for cycle. storage may be nil, in which
// case selections are not journaled.
func NewTrackerService(cycle domain.Cycle, storage ports.Storage) *TrackerService {
	return &TrackerService{
		cycle:   cycle,
		clock:   ports.SystemClock,
		storage: storage,
	}
}

// SetClock replaces the clock used for selections and queries.
func (s *TrackerService) SetClock(clock ports.Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// Cycle returns the tracked cycle.
func (s *TrackerService) Cycle() domain.Cycle {
	return s.cycle
}

// State returns a copy of the current tracking state.
func (s *TrackerService) State() domain.CycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Select anchors the cycle at phase as of now. The selection is journaled
// when storage is configured; a journal failure is returned but the new state
// is kept.
func (s *TrackerService) Select(ctx context.Context, phase domain.PhaseIndex) (domain.CycleState, error) {
	s.mu.Lock()
	now := s.clock.Now()
	next, err := s.state.SetPhase(phase, now)
	if err != nil {
		cur := s.state
		s.mu.Unlock()
		return cur, err
	}
	s.state = next
	s.mu.Unlock()

	if s.storage == nil {
		return next, nil
	}

	selection, err := domain.NewSelection(s.cycle, phase, now)
	if err != nil {
		return next, err
	}
	if err := s.storage.Selections().Save(ctx, selection); err != nil {
		return next, fmt.Errorf("failed to journal selection: %w", err)
	}
	return next, nil
}

// Current returns the phase active now.
func (s *TrackerService) Current() (domain.PhaseReading, bool) {
	s.mu.Lock()
	state, now := s.state, s.clock.Now()
	s.mu.Unlock()
	return s.cycle.ComputeCurrentPhase(state, now)
}

// Reset stops tracking until the next selection.
func (s *TrackerService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.CycleState{}
}

// Resolve maps user text to a phase of the tracked cycle.
func (s *TrackerService) Resolve(input string) (domain.PhaseIndex, error) {
	return LookupPhase(s.cycle, input)
}

// History returns the most recent journaled selections.
func (s *TrackerService) History(ctx context.Context, limit int) ([]*domain.Selection, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.Selections().FindRecent(ctx, limit)
}

// Tally returns per-phase selection counts from the journal.
func (s *TrackerService) Tally(ctx context.Context) ([]domain.PhaseTally, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.Selections().CountByPhase(ctx)
}

// Ensure TrackerService implements the tracker ports.
var (
	_ ports.PhaseTracker     = (*TrackerService)(nil)
	_ ports.MCPStateProvider = (*TrackerService)(nil)
)
