// Package views holds the screens of the interactive interface.
package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tasknote/internal/ui/theme"
)

// ErrorMsg reports a failed action to the root model
type ErrorMsg struct {
	Err error
}

// StatusMsg reports a finished action to the root model
type StatusMsg struct {
	Message string
}

// progressCells returns how many of width cells are filled at percent
func progressCells(percent, width int) int {
	if width <= 0 {
		return 0
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent * width / 100
}

// ProgressBar renders a bar of width cells filled to percent
func ProgressBar(percent, width int) string {
	t := theme.Current.Theme
	filled := progressCells(percent, width)

	return lipgloss.NewStyle().Foreground(t.ProgressFilled).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(t.ProgressEmpty).Render(strings.Repeat("░", width-filled))
}

// truncate shortens s to width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// clamp keeps a cursor inside [0, n)
func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
