// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/eclipse-cli/internal/config"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/ports"
)

// errNoWindowManager is shown when always-on-top is toggled without a window manager.
var errNoWindowManager = errors.New("always-on-top unavailable: no window manager")

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is sent on every refresh tick.
type tickMsg time.Time

// Model represents the TUI state.
type Model struct {
	tracker  ports.PhaseTracker
	windows  ports.WindowManager
	theme    config.ThemeConfig
	refresh  time.Duration
	progress progress.Model
	width    int
	height   int

	reading  domain.PhaseReading
	tracking bool
	cursor   domain.PhaseIndex
	lastErr  error

	alwaysOnTop  bool
	onTransition func(domain.PhaseReading)

	notificationsEnabled bool
	notificationToggle   func(bool)
}

// NewModel creates a new TUI model reading from tracker every refresh.
func NewModel(tracker ports.PhaseTracker, windows ports.WindowManager, theme *config.ThemeConfig, refresh time.Duration) Model {
	resolved := resolveTheme(theme)
	if refresh <= 0 {
		refresh = 50 * time.Millisecond
	}
	m := Model{
		tracker:  tracker,
		windows:  windows,
		theme:    resolved,
		refresh:  refresh,
		progress: progress.New(progress.WithGradient(resolved.Button, resolved.ButtonHighlight), progress.WithoutPercentage()),
	}
	m.reading, m.tracking = tracker.Current()
	if m.tracking {
		m.cursor = m.reading.Phase
	}
	return m
}

// SetOnTransition sets a callback fired when the computed phase changes between ticks.
func (m *Model) SetOnTransition(callback func(domain.PhaseReading)) {
	m.onTransition = callback
}

// SetNotifications sets the notification toggle state and its change handler.
func (m *Model) SetNotifications(enabled bool, onToggle func(bool)) {
	m.notificationsEnabled = enabled
	m.notificationToggle = onToggle
}

// SetAlwaysOnTop records the current always-on-top state without calling the window manager.
func (m *Model) SetAlwaysOnTop(enabled bool) {
	m.alwaysOnTop = enabled
}

// SetError shows err below the readout until the next successful action.
func (m *Model) SetError(err error) {
	m.lastErr = err
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1", "2", "3", "4":
			m.selectPhase(domain.PhaseIndex(msg.String()[0] - '1'))
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < domain.PhaseCount-1 {
				m.cursor++
			}
		case "enter", " ":
			m.selectPhase(m.cursor)
		case "t":
			m.toggleAlwaysOnTop()
		case "tab":
			m.notificationsEnabled = !m.notificationsEnabled
			if m.notificationToggle != nil {
				m.notificationToggle(m.notificationsEnabled)
			}
		case "r":
			m.tracker.Reset()
			m.reading, m.tracking = domain.PhaseReading{}, false
			m.lastErr = nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(min(msg.Width-8, 48), 10)

	case tickMsg:
		m.refreshReading()
		return m, m.tickCmd()
	}

	return m, nil
}

// selectPhase anchors the cycle at phase. A journal error still leaves the
// new state in place, so the readout is refreshed either way.
func (m *Model) selectPhase(phase domain.PhaseIndex) {
	_, err := m.tracker.Select(context.Background(), phase)
	m.lastErr = err
	m.cursor = phase
	m.reading, m.tracking = m.tracker.Current()
}

// refreshReading recomputes the reading from the wall clock and fires the
// transition callback when the phase changed since the previous tick.
func (m *Model) refreshReading() {
	reading, ok := m.tracker.Current()
	changed := ok && m.tracking && reading.Phase != m.reading.Phase
	m.reading, m.tracking = reading, ok
	if changed {
		m.cursor = reading.Phase
		if m.onTransition != nil {
			m.onTransition(reading)
		}
	}
}

// toggleAlwaysOnTop asks the window manager for the opposite state. On failure
// the checkbox keeps its previous value.
func (m *Model) toggleAlwaysOnTop() {
	want := !m.alwaysOnTop
	if m.windows == nil {
		m.lastErr = errNoWindowManager
		return
	}
	if err := m.windows.SetAlwaysOnTop(want); err != nil {
		m.lastErr = err
		return
	}
	m.alwaysOnTop = want
	m.lastErr = nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
	highlightStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.TextHighlight))
	helpStyle := lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color(m.theme.Text))

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.TextHighlight)).MarginBottom(1)
	sections = append(sections, titleStyle.Render("🌑 Eclipse Moon Phase Tracker"))
	sections = append(sections, textStyle.Render("Select the boss's current phase:"))
	sections = append(sections, "")
	sections = append(sections, m.viewButtons())
	sections = append(sections, "")

	cycle := m.tracker.Cycle()
	if m.tracking {
		sections = append(sections, textStyle.Render("Current Phase: ")+highlightStyle.Render(m.reading.Name))
		sections = append(sections, textStyle.Render("Time Until Next Phase: ")+highlightStyle.Render(domain.FormatRemaining(m.reading.Remaining)))
		sections = append(sections, "")
		sections = append(sections, renderBigCountdown(fmt.Sprintf("%.1f", m.reading.Remaining.Seconds()), lipgloss.Color(m.theme.ButtonHighlight), m.width))
		sections = append(sections, "")
		sections = append(sections, m.progress.ViewAs(m.reading.Progress()))
		sections = append(sections, helpStyle.Render(fmt.Sprintf("Next: %s", cycle.Name(m.reading.Next()))))
	} else {
		sections = append(sections, textStyle.Render("Current Phase: N/A"))
		sections = append(sections, textStyle.Render("Time Until Next Phase: N/A"))
	}

	sections = append(sections, "")
	sections = append(sections, textStyle.Render(checkbox(m.alwaysOnTop)+" Always on Top"))

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TextHighlight)).Italic(true)
		sections = append(sections, errStyle.Render("Error: "+m.lastErr.Error()))
	}

	notifLabel := "off"
	if m.notificationsEnabled {
		notifLabel = "on"
	}
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("[1-4] select  ↑/↓ enter  [t]op  [r]eset  [q]uit  tab:notify %s", notifLabel)))

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Frame)).
		Background(lipgloss.Color(m.theme.Background)).
		Padding(1, 2)
	content := frame.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// viewButtons renders one button per phase; the active phase is highlighted
// and the cursor is marked with an arrow.
func (m Model) viewButtons() string {
	cycle := m.tracker.Cycle()
	buttonStyle := lipgloss.NewStyle().
		Width(20).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.theme.Text)).
		Background(lipgloss.Color(m.theme.Button))
	activeStyle := buttonStyle.
		Bold(true).
		Foreground(lipgloss.Color(m.theme.TextHighlight)).
		Background(lipgloss.Color(m.theme.ButtonHighlight))

	rows := make([]string, 0, domain.PhaseCount)
	for i, phase := range cycle {
		idx := domain.PhaseIndex(i)
		marker := "  "
		if idx == m.cursor {
			marker = "▸ "
		}
		style := buttonStyle
		if m.tracking && idx == m.reading.Phase {
			style = activeStyle
		}
		rows = append(rows, marker+style.Render(fmt.Sprintf("%d %s", i+1, phase.Name)))
	}
	return strings.Join(rows, "\n")
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// tickCmd creates a command that sends a tick message after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
