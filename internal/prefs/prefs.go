// Package prefs persists user preferences and notifies observers of changes.
package prefs

import (
	"context"
	"log/slog"

	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/model"
)

// KeyTheme is the preference key of the theme mode
const KeyTheme = "theme"

// KV is the primitive key-value persistence the store is built on
type KV interface {
	GetPreference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error
}

// Store reads and writes the theme preference.
// Create one at startup and pass it to whoever needs it.
type Store struct {
	kv  KV
	bus *events.Bus
}

// NewStore creates a preference store. bus must be the bus kv publishes
// preference changes to.
func NewStore(kv KV, bus *events.Bus) *Store {
	return &Store{kv: kv, bus: bus}
}

// Theme returns the stored theme mode. Unset or malformed values read as
// the system theme.
func (s *Store) Theme(ctx context.Context) (model.ThemeMode, error) {
	raw, ok, err := s.kv.GetPreference(ctx, KeyTheme)
	if err != nil {
		return model.ThemeSystem, err
	}
	if !ok {
		return model.ThemeSystem, nil
	}

	mode, err := model.ParseThemeMode(raw)
	if err != nil {
		slog.Warn("ignoring malformed theme preference", "value", raw, "error", err)
		return model.ThemeSystem, nil
	}
	return mode, nil
}

// SetTheme persists the theme mode
func (s *Store) SetTheme(ctx context.Context, mode model.ThemeMode) error {
	return s.kv.SetPreference(ctx, KeyTheme, string(mode))
}

// Settings returns all preferences as one record
func (s *Store) Settings(ctx context.Context) (model.AppSettings, error) {
	mode, err := s.Theme(ctx)
	return model.AppSettings{Theme: mode}, err
}

// Watch emits the current theme mode and then every change.
// The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan model.ThemeMode {
	out := make(chan model.ThemeMode)
	signal, unsubscribe := s.bus.Subscribe(events.TopicPreferences)

	go func() {
		defer close(out)
		defer unsubscribe()

		last := model.ThemeMode("")
		for {
			mode, err := s.Theme(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				slog.Error("failed to read theme preference", "error", err)
			} else if mode != last {
				select {
				case out <- mode:
					last = mode
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
