package domain

import (
	"fmt"
	"time"
)

// CycleState anchors the cycle to a moment the user observed a phase.
// The zero value means no phase has been selected yet.
type CycleState struct {
	StartedAt time.Time
	Reference PhaseIndex
	Tracking  bool
}

// IsTracking returns true once a phase has been selected.
func (s CycleState) IsTracking() bool {
	return s.Tracking
}

// SetPhase returns a new state anchored at now with phase as the reference.
// Both fields are replaced together; nothing from s carries over.
func (s CycleState) SetPhase(phase PhaseIndex, now time.Time) (CycleState, error) {
	if !phase.Valid() {
		return s, fmt.Errorf("%w: %d", ErrInvalidPhase, phase)
	}
	return CycleState{
		StartedAt: now,
		Reference: phase,
		Tracking:  true,
	}, nil
}

// PhaseReading is the result of querying the cycle at a moment in time.
type PhaseReading struct {
	Phase     PhaseIndex
	Name      string
	Remaining time.Duration
	Duration  time.Duration
	// Offset counts phases since the reference phase within the current cycle.
	Offset int
}

// Progress returns the fraction of the current phase that has elapsed.
func (r PhaseReading) Progress() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return 1 - float64(r.Remaining)/float64(r.Duration)
}

// Next returns the phase that starts when this one ends.
func (r PhaseReading) Next() PhaseIndex {
	return r.Phase.Next()
}

// ComputeCurrentPhase returns the phase active at now and the time left in it.
// It returns false when state has no reference phase yet.
//
// The boundary instant belongs to the phase that is starting: a query exactly
// one reference-phase duration after StartedAt reports the next phase with its
// full duration remaining.
func (c Cycle) ComputeCurrentPhase(state CycleState, now time.Time) (PhaseReading, bool) {
	if !state.IsTracking() {
		return PhaseReading{}, false
	}
	if !state.Reference.Valid() {
		panic(fmt.Sprintf("domain: tracking state has invalid reference phase %d", state.Reference))
	}

	cycle := c.Duration()
	if cycle <= 0 {
		panic("domain: cycle has no duration")
	}

	elapsed := now.Sub(state.StartedAt) % cycle
	if elapsed < 0 {
		elapsed += cycle
	}

	var total time.Duration
	for i := 0; i < PhaseCount; i++ {
		phase := (state.Reference + PhaseIndex(i)) % PhaseCount
		length := c[phase].Duration()
		total += length
		if elapsed < total {
			return PhaseReading{
				Phase:     phase,
				Name:      c[phase].Name,
				Remaining: total - elapsed,
				Duration:  length,
				Offset:    i,
			}, true
		}
	}

	panic(fmt.Sprintf("domain: elapsed %v fell outside cycle of %v (reference %d)", elapsed, cycle, state.Reference))
}

// FormatRemaining formats a remaining duration in seconds with one decimal place.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1f sec", d.Seconds())
}
