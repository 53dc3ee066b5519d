package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/tasknote", cfg.DataDir)
	assert.Equal(t, "/data/tasknote/tasknote.db", cfg.DatabasePath())
	assert.Equal(t, "cgo", cfg.Driver)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Reminders.Lead)
}

func TestLoadConfigWithFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", configHome)

	configDir := filepath.Join(configHome, "tasknote")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `data_dir: /tmp/tn
driver: pure
log_level: debug
reminders:
  enabled: false
  lead: 1h30m
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tn", cfg.DataDir)
	assert.Equal(t, "pure", cfg.Driver)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.False(t, cfg.Reminders.Enabled)
	assert.Equal(t, 90*time.Minute, cfg.Reminders.Lead)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /x/y.db\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/x/y.db", cfg.DatabasePath())
	assert.Equal(t, "cgo", cfg.Driver)
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Reminders.Lead)
}

func TestEnvOverridesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvPath, path)

	got, err := Path()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Driver = "pure"
	cfg.Reminders.Lead = 5 * time.Minute
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.Level())

	cfg.LogLevel = "warn"
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}
