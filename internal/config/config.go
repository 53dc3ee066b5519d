// Package config loads the tasknote configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file location
const EnvPath = "TASKNOTE_CONFIG"

// Config represents the application configuration
type Config struct {
	DataDir   string    `yaml:"data_dir"`
	DBPath    string    `yaml:"db_path,omitempty"`
	Driver    string    `yaml:"driver"`
	LogLevel  string    `yaml:"log_level"`
	Reminders Reminders `yaml:"reminders"`
}

// Reminders configures due-date notifications
type Reminders struct {
	Enabled bool          `yaml:"enabled"`
	Lead    time.Duration `yaml:"lead"`
}

const (
	defaultDriver   = "cgo"
	defaultLogLevel = "info"
	defaultLead     = 15 * time.Minute
)

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{
		Reminders: Reminders{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from the user's config directory.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads config from path, falling back to defaults when the
// file is missing
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal over the defaults so omitted keys keep their default
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Path returns the path to the config file
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tasknote", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tasknote", "config.yaml"), nil
}

// DatabasePath returns the database file, defaulting into the data dir
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "tasknote.db")
}

// Level maps LogLevel to a slog level. Unknown names read as info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.Driver == "" {
		c.Driver = defaultDriver
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Reminders.Lead <= 0 {
		c.Reminders.Lead = defaultLead
	}
}

func defaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "tasknote")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasknote"
	}
	return filepath.Join(home, ".local", "share", "tasknote")
}
