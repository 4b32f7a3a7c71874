// Package window passes window attributes through to the host window manager.
package window

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/xvierd/eclipse-cli/internal/ports"
)

// ErrUnsupported indicates no window manager control is available.
var ErrUnsupported = errors.New("always-on-top unsupported")

// runner executes an external command and returns its combined output.
type runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Manager toggles the "above" state of the active window with wmctrl.
type Manager struct {
	path string
	run  runner
}

// New looks up command on PATH. When it is missing the returned manager
// reports ErrUnsupported for every request.
func New(command string) *Manager {
	if command == "" {
		return &Manager{}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return &Manager{}
	}
	return &Manager{path: path, run: execRunner}
}

// Supported reports whether a window manager command was found.
func (m *Manager) Supported() bool {
	return m.path != "" && m.run != nil
}

// SetAlwaysOnTop asks the window manager to keep the active window above others.
func (m *Manager) SetAlwaysOnTop(enabled bool) error {
	if !m.Supported() {
		return ErrUnsupported
	}
	action := "remove,above"
	if enabled {
		action = "add,above"
	}
	output, err := m.run(m.path, "-r", ":ACTIVE:", "-b", action)
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg != "" {
			return fmt.Errorf("set always-on-top: %w: %s", err, msg)
		}
		return fmt.Errorf("set always-on-top: %w", err)
	}
	return nil
}

// Ensure Manager implements ports.WindowManager.
var _ ports.WindowManager = (*Manager)(nil)
