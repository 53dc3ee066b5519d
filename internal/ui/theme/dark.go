package theme

import "github.com/charmbracelet/lipgloss"

// Dark is built on the Nord palette
// https://www.nordtheme.com/
var Dark = Theme{
	Name: "dark",

	// Polar Night (dark backgrounds)
	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	// Frost (primary blues)
	Primary:   lipgloss.Color("#88C0D0"), // Nord8 - bright cyan
	Secondary: lipgloss.Color("#81A1C1"), // Nord9 - desaturated blue
	Info:      lipgloss.Color("#5E81AC"), // Nord10 - dark blue

	// Aurora (accent colors)
	Success: lipgloss.Color("#A3BE8C"), // Nord14 - green
	Warning: lipgloss.Color("#EBCB8B"), // Nord13 - yellow
	Error:   lipgloss.Color("#BF616A"), // Nord11 - red

	// Category colors
	CategoryLow:    lipgloss.Color("#A3BE8C"), // Green
	CategoryMedium: lipgloss.Color("#EBCB8B"), // Yellow
	CategoryHigh:   lipgloss.Color("#D08770"), // Orange
	CategoryUrgent: lipgloss.Color("#BF616A"), // Red

	// Status colors
	StatusUndone:    lipgloss.Color("#88C0D0"), // Cyan
	StatusCompleted: lipgloss.Color("#A3BE8C"), // Green
	StatusOverdue:   lipgloss.Color("#BF616A"), // Red

	ProgressFilled: lipgloss.Color("#88C0D0"),
	ProgressEmpty:  lipgloss.Color("#3B4252"),
}
