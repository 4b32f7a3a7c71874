package ports

import (
	"context"
	"time"

	"github.com/xvierd/eclipse-cli/internal/domain"
)

// Clock supplies the wall-clock time used for phase queries.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock implementation using the standard library.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// PhaseTracker owns the tracking state and answers phase queries.
// This is a driven port (implemented by the services layer).
type PhaseTracker interface {
	// Cycle returns the phase definitions being tracked.
	Cycle() domain.Cycle

	// Select records that phase is the one observed right now.
	Select(ctx context.Context, phase domain.PhaseIndex) (domain.CycleState, error)

	// Current returns the phase active now; false until a phase is selected.
	Current() (domain.PhaseReading, bool)

	// Reset clears the tracking state.
	Reset()
}

// WindowManager passes window attributes through to the host windowing system.
// This is a driven port (implemented by adapters).
type WindowManager interface {
	// SetAlwaysOnTop asks the host to keep the widget above other windows.
	SetAlwaysOnTop(enabled bool) error
}

// Display is the interactive phase readout.
// This is a driving port (called by the application layer).
type Display interface {
	// Run starts the display and blocks until the user closes it.
	Run(ctx context.Context) error

	// Stop gracefully stops the display.
	Stop()

	// SetOnTransition sets a callback fired when the computed phase changes.
	SetOnTransition(callback func(domain.PhaseReading))

	// SetNotifications sets the initial notification toggle and its change handler.
	SetNotifications(enabled bool, onToggle func(bool))

	// SetAlwaysOnTop sets the initial always-on-top toggle.
	SetAlwaysOnTop(enabled bool)
}
