// Package app wires storage, preferences and reminders together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dori/tasknote/internal/config"
	"github.com/dori/tasknote/internal/db"
	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/logging"
	"github.com/dori/tasknote/internal/notify"
	"github.com/dori/tasknote/internal/prefs"
	"github.com/gofrs/flock"
)

// App holds the application state and dependencies
type App struct {
	Config    *config.Config
	DB        *db.DB
	Bus       *events.Bus
	Prefs     *prefs.Store
	Notifier  *notify.Notifier
	Scheduler notify.Scheduler
	DataDir   string

	lockFile  *flock.Flock
	logCloser io.Closer
}

// Options tune how much of the application a process owns
type Options struct {
	// SkipLock lets short-lived commands run next to the TUI
	SkipLock bool
	// DisableReminders installs a scheduler that never fires
	DisableReminders bool
	// SkipLogging leaves the default logger untouched
	SkipLogging bool
}

// ErrAlreadyRunning is returned when another instance holds the lock
var ErrAlreadyRunning = errors.New("another instance of tasknote is already running")

// New creates a new application instance
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  cfg.DataDir,
		Bus:      events.NewBus(),
		Notifier: notify.NewNotifier(),
	}

	if !opts.SkipLogging {
		closer, err := logging.Init(cfg.DataDir, cfg.Level())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
		app.logCloser = closer
	}

	// Acquire lock to ensure single instance
	if !opts.SkipLock {
		if err := app.acquireLock(); err != nil {
			app.closeLog()
			return nil, err
		}
	}

	driver, err := db.NewDriver(cfg.Driver)
	if err != nil {
		app.Close()
		return nil, err
	}

	database, err := db.Open(ctx, cfg.DatabasePath(), driver, app.Bus)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database
	app.Prefs = prefs.NewStore(database, app.Bus)

	if opts.DisableReminders || !cfg.Reminders.Enabled {
		app.Scheduler = notify.Noop{}
	} else {
		app.Scheduler = notify.NewTimerScheduler(app.Notifier, cfg.Reminders.Lead)
	}

	slog.Info("tasknote started", "data_dir", cfg.DataDir, "driver", driver.Name())
	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "tasknote.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrAlreadyRunning
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

func (a *App) closeLog() {
	if a.logCloser != nil {
		a.logCloser.Close()
		a.logCloser = nil
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if s, ok := a.Scheduler.(*notify.TimerScheduler); ok {
		s.Stop()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()
	a.closeLog()

	return errors.Join(errs...)
}
