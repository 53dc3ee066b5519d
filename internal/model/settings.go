package model

import (
	"fmt"
	"strings"
)

// ThemeMode is the persisted appearance preference
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// ThemeModes returns all theme modes in cycle order
func ThemeModes() []ThemeMode {
	return []ThemeMode{ThemeSystem, ThemeLight, ThemeDark}
}

// ParseThemeMode parses a stored or user-supplied theme mode
func ParseThemeMode(s string) (ThemeMode, error) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	case ThemeSystem:
		return ThemeSystem, nil
	default:
		return ThemeSystem, fmt.Errorf("unknown theme mode %q", s)
	}
}

// Next returns the following mode in cycle order
func (m ThemeMode) Next() ThemeMode {
	modes := ThemeModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return ThemeSystem
}

// AppSettings holds user preferences
type AppSettings struct {
	Theme ThemeMode `json:"theme"`
}
