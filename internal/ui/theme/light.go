package theme

import "github.com/charmbracelet/lipgloss"

// Light uses Nord's Snow Storm as background with darkened accents
var Light = Theme{
	Name: "light",

	Background: lipgloss.Color("#ECEFF4"),
	Foreground: lipgloss.Color("#2E3440"),
	Subtle:     lipgloss.Color("#7B88A1"),
	Highlight:  lipgloss.Color("#D8DEE9"),
	Border:     lipgloss.Color("#A5B1C2"),

	Primary:   lipgloss.Color("#5E81AC"),
	Secondary: lipgloss.Color("#4C6A92"),
	Info:      lipgloss.Color("#3B6E8F"),

	Success: lipgloss.Color("#4F7A3A"),
	Warning: lipgloss.Color("#A3781F"),
	Error:   lipgloss.Color("#A5333E"),

	// Category colors
	CategoryLow:    lipgloss.Color("#4F7A3A"), // Green
	CategoryMedium: lipgloss.Color("#A3781F"), // Amber
	CategoryHigh:   lipgloss.Color("#B5562F"), // Orange
	CategoryUrgent: lipgloss.Color("#A5333E"), // Red

	// Status colors
	StatusUndone:    lipgloss.Color("#5E81AC"),
	StatusCompleted: lipgloss.Color("#4F7A3A"),
	StatusOverdue:   lipgloss.Color("#A5333E"),

	ProgressFilled: lipgloss.Color("#5E81AC"),
	ProgressEmpty:  lipgloss.Color("#D8DEE9"),
}
