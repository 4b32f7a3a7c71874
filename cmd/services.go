package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/eclipse-cli/internal/adapters/notification"
	"github.com/xvierd/eclipse-cli/internal/adapters/storage"
	"github.com/xvierd/eclipse-cli/internal/adapters/window"
	"github.com/xvierd/eclipse-cli/internal/config"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/ports"
	"github.com/xvierd/eclipse-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	storage  ports.Storage
	tracker  *services.TrackerService
	notifier *notification.Notifier
	windows  *window.Manager
	config   *config.Config
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		fmt.Fprintf(os.Stderr, "Warning: using default config: %v\n", err)
		app.config = config.DefaultConfig()
	}

	app.notifier = notification.New(&app.config.Notifications)
	app.windows = window.New(app.config.Window.Command)

	// The journal is optional: the tracker works without it
	app.storage = nil
	if app.config.Storage.Journal && !noJournal {
		store, err := openJournal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: selection journal disabled: %v\n", err)
		} else {
			app.storage = store
		}
	}

	app.tracker = services.NewTrackerService(domain.EclipseCycle, app.storage)
	return nil
}

// openJournal opens the selection journal at --db or the configured data dir.
func openJournal() (ports.Storage, error) {
	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
