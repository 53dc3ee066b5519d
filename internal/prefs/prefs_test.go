package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dori/tasknote/internal/db"
	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is an in-memory KV that publishes like the database does
type memKV struct {
	mu     sync.Mutex
	values map[string]string
	bus    *events.Bus
	err    error
}

func newMemKV(bus *events.Bus) *memKV {
	return &memKV{values: make(map[string]string), bus: bus}
}

func (m *memKV) GetPreference(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) SetPreference(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	m.bus.Publish(events.TopicPreferences)
	return nil
}

func TestThemeDefaultsToSystem(t *testing.T) {
	bus := events.NewBus()
	store := NewStore(newMemKV(bus), bus)

	mode, err := store.Theme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ThemeSystem, mode)
}

func TestMalformedThemeFallsBackToSystem(t *testing.T) {
	bus := events.NewBus()
	kv := newMemKV(bus)
	kv.values[KeyTheme] = "neon"
	store := NewStore(kv, bus)

	mode, err := store.Theme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ThemeSystem, mode)
}

func TestThemeReadErrorPropagates(t *testing.T) {
	bus := events.NewBus()
	kv := newMemKV(bus)
	kv.err = errors.New("disk gone")
	store := NewStore(kv, bus)

	_, err := store.Theme(context.Background())
	assert.Error(t, err)
}

func TestSetThemePersistsThroughDatabase(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "prefs.db"), nil, bus)
	require.NoError(t, err)
	defer database.Close()

	store := NewStore(database, bus)
	require.NoError(t, store.SetTheme(ctx, model.ThemeDark))

	settings, err := store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, settings.Theme)
}

func TestWatchEmitsChanges(t *testing.T) {
	bus := events.NewBus()
	store := NewStore(newMemKV(bus), bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	modes := store.Watch(ctx)
	assert.Equal(t, model.ThemeSystem, next(t, modes))

	require.NoError(t, store.SetTheme(ctx, model.ThemeLight))
	assert.Equal(t, model.ThemeLight, next(t, modes))

	require.NoError(t, store.SetTheme(ctx, model.ThemeDark))
	assert.Equal(t, model.ThemeDark, next(t, modes))
}

func next(t *testing.T, ch <-chan model.ThemeMode) model.ThemeMode {
	t.Helper()
	select {
	case mode := <-ch:
		return mode
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for theme change")
		return ""
	}
}
