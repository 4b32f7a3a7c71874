package domain

import (
	"errors"
	"fmt"
	"time"
)

// TickDuration is the length of one game tick.
const TickDuration = 600 * time.Millisecond

// PhaseCount is the number of phases in one cycle.
const PhaseCount = 4

// ErrInvalidPhase is returned when a phase index is outside [0, PhaseCount).
var ErrInvalidPhase = errors.New("invalid phase")

// PhaseIndex identifies a phase by its position in the cycle.
type PhaseIndex int

const (
	PhasePreClones  PhaseIndex = 0
	PhaseClones     PhaseIndex = 1
	PhasePostClones PhaseIndex = 2
	PhaseShield     PhaseIndex = 3
)

// Valid reports whether the index names one of the cycle's phases.
func (p PhaseIndex) Valid() bool {
	return p >= 0 && p < PhaseCount
}

// Next returns the phase that follows p, wrapping from the last back to the first.
func (p PhaseIndex) Next() PhaseIndex {
	return (p + 1) % PhaseCount
}

// Phase is one named, fixed-length segment of the cycle.
type Phase struct {
	Name  string
	Ticks int
}

// Duration returns how long the phase lasts.
func (p Phase) Duration() time.Duration {
	return time.Duration(p.Ticks) * TickDuration
}

// Cycle is the ordered sequence of phases. Phase 3 is followed by phase 0.
type Cycle [PhaseCount]Phase

// EclipseCycle is the Eclipse Moon encounter.
var EclipseCycle = Cycle{
	{Name: "Pre-Clones", Ticks: 30},
	{Name: "Clones", Ticks: 66},
	{Name: "Post-Clones", Ticks: 30},
	{Name: "Shield", Ticks: 60},
}

// Duration returns the length of one full cycle.
func (c Cycle) Duration() time.Duration {
	var total time.Duration
	for _, p := range c {
		total += p.Duration()
	}
	return total
}

// Phase returns the phase at index p.
func (c Cycle) Phase(p PhaseIndex) (Phase, error) {
	if !p.Valid() {
		return Phase{}, fmt.Errorf("%w: %d", ErrInvalidPhase, p)
	}
	return c[p], nil
}

// Name returns the phase name at index p, or "Unknown".
func (c Cycle) Name(p PhaseIndex) string {
	if !p.Valid() {
		return "Unknown"
	}
	return c[p].Name
}

// Names returns the phase names in cycle order.
func (c Cycle) Names() []string {
	names := make([]string, 0, PhaseCount)
	for _, p := range c {
		names = append(names, p.Name)
	}
	return names
}
