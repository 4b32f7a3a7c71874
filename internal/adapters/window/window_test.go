package window

import (
	"errors"
	"strings"
	"testing"
)

func TestManager_Unsupported(t *testing.T) {
	m := New("definitely-not-a-window-manager-binary")
	if m.Supported() {
		t.Fatal("missing binary should not be supported")
	}
	if err := m.SetAlwaysOnTop(true); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SetAlwaysOnTop() error = %v, want ErrUnsupported", err)
	}
	if err := New("").SetAlwaysOnTop(false); !errors.Is(err, ErrUnsupported) {
		t.Errorf("empty command error = %v, want ErrUnsupported", err)
	}
}

func TestManager_PassesThroughToggle(t *testing.T) {
	var calls []string
	m := &Manager{
		path: "/usr/bin/wmctrl",
		run: func(name string, args ...string) ([]byte, error) {
			calls = append(calls, name+" "+strings.Join(args, " "))
			return nil, nil
		},
	}

	if err := m.SetAlwaysOnTop(true); err != nil {
		t.Fatalf("SetAlwaysOnTop(true) error = %v", err)
	}
	if err := m.SetAlwaysOnTop(false); err != nil {
		t.Fatalf("SetAlwaysOnTop(false) error = %v", err)
	}

	want := []string{
		"/usr/bin/wmctrl -r :ACTIVE: -b add,above",
		"/usr/bin/wmctrl -r :ACTIVE: -b remove,above",
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestManager_ReportsCommandOutput(t *testing.T) {
	m := &Manager{
		path: "wmctrl",
		run: func(string, ...string) ([]byte, error) {
			return []byte("Cannot get client list properties.\n"), errors.New("exit status 1")
		},
	}
	err := m.SetAlwaysOnTop(true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Cannot get client list") {
		t.Errorf("error %q should include command output", err)
	}
}
