// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/eclipse-cli/internal/config"
	"github.com/xvierd/eclipse-cli/internal/domain"
)

// sender delivers one desktop notification.
type sender func(title, message string, icon any) error

// Notifier handles desktop notifications.
type Notifier struct {
	mu     sync.Mutex
	cfg    config.NotificationConfig
	notify sender
	alert  sender
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{notify: beeep.Notify, alert: beeep.Alert}
	if cfg != nil {
		n.cfg = *cfg
	}
	return n
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	n.mu.Lock()
	cfg := n.cfg
	n.mu.Unlock()

	if !cfg.Enabled {
		return nil
	}
	if cfg.Sound {
		return n.alert(title, message, "")
	}
	return n.notify(title, message, "")
}

// NotifyTransition announces the phase that just started.
func (n *Notifier) NotifyTransition(reading domain.PhaseReading) error {
	title := fmt.Sprintf("🌑 %s", reading.Name)
	message := fmt.Sprintf("%s phase started. Next phase in %s.", reading.Name, domain.FormatRemaining(reading.Remaining))
	return n.Notify(title, message)
}

// SetEnabled turns notifications on or off.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.Enabled = enabled
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cfg.Enabled
}
