package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/eclipse-cli/internal/config"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/ports"
)

// Display implements the ports.Display interface using Bubbletea.
type Display struct {
	tracker ports.PhaseTracker
	windows ports.WindowManager
	theme   *config.ThemeConfig
	refresh time.Duration

	mu                 sync.Mutex
	program            *tea.Program
	cancel             context.CancelFunc
	onTransition       func(domain.PhaseReading)
	notifications      bool
	notificationToggle func(bool)
	alwaysOnTop        bool
}

// NewDisplay creates a new TUI display adapter.
func NewDisplay(tracker ports.PhaseTracker, windows ports.WindowManager, theme *config.ThemeConfig, refresh time.Duration) *Display {
	return &Display{
		tracker: tracker,
		windows: windows,
		theme:   theme,
		refresh: refresh,
	}
}

// Model builds the bubbletea model with the display's callbacks applied.
// When always-on-top was requested it is passed to the window manager first;
// a failure is shown in the model and the checkbox starts cleared.
func (d *Display) Model() Model {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := NewModel(d.tracker, d.windows, d.theme, d.refresh)
	m.SetOnTransition(d.onTransition)
	m.SetNotifications(d.notifications, d.notificationToggle)

	if d.alwaysOnTop {
		if d.windows == nil {
			m.SetError(errNoWindowManager)
		} else if err := d.windows.SetAlwaysOnTop(true); err != nil {
			m.SetError(err)
		} else {
			m.SetAlwaysOnTop(true)
		}
	}
	return m
}

// Run starts the display and blocks until the user quits or ctx is cancelled.
func (d *Display) Run(ctx context.Context) error {
	model := d.Model()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	d.mu.Lock()
	d.program = program
	d.cancel = cancel
	d.mu.Unlock()

	_, err := program.Run()

	d.mu.Lock()
	d.program = nil
	d.cancel = nil
	d.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the display.
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	if d.program != nil {
		d.program.Quit()
	}
}

// SetOnTransition sets a callback fired when the computed phase changes.
func (d *Display) SetOnTransition(callback func(domain.PhaseReading)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onTransition = callback
}

// SetNotifications sets the initial notification toggle and its change handler.
func (d *Display) SetNotifications(enabled bool, onToggle func(bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifications = enabled
	d.notificationToggle = onToggle
}

// SetAlwaysOnTop requests always-on-top when the display starts.
func (d *Display) SetAlwaysOnTop(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alwaysOnTop = enabled
}

// Ensure Display implements ports.Display.
var _ ports.Display = (*Display)(nil)

// ShowReading writes a plain-text readout without starting interactive mode.
func ShowReading(w io.Writer, reading domain.PhaseReading, ok bool) {
	if !ok {
		fmt.Fprintln(w, "Current Phase: N/A")
		fmt.Fprintln(w, "Time Until Next Phase: N/A")
		return
	}
	fmt.Fprintf(w, "Current Phase: %s\n", reading.Name)
	fmt.Fprintf(w, "Time Until Next Phase: %s\n", domain.FormatRemaining(reading.Remaining))
	fmt.Fprintf(w, "Progress: %.0f%%\n", reading.Progress()*100)
}
