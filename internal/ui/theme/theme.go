package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tasknote/internal/model"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Category colors
	CategoryLow    lipgloss.Color
	CategoryMedium lipgloss.Color
	CategoryHigh   lipgloss.Color
	CategoryUrgent lipgloss.Color

	// Status colors
	StatusUndone    lipgloss.Color
	StatusCompleted lipgloss.Color
	StatusOverdue   lipgloss.Color

	// Progress bar
	ProgressFilled lipgloss.Color
	ProgressEmpty  lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	// Base styles
	Header lipgloss.Style
	Tab    lipgloss.Style
	TabOn  lipgloss.Style

	// Task styles
	TaskNormal  lipgloss.Style
	TaskCursor  lipgloss.Style
	TaskDone    lipgloss.Style
	TaskOverdue lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	DueDate  lipgloss.Style
	Link     lipgloss.Style

	// Input styles
	InputFocused lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TabOn: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true).
			Padding(0, 1),

		// Task styles
		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskCursor: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error),

		// Component styles
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Link: lipgloss.NewStyle().
			Foreground(t.Info).
			Underline(true),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		// Panel styles
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		// Help styles
		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Mode   model.ThemeMode
	Theme  Theme
	Styles Styles
}{
	Mode:   model.ThemeSystem,
	Theme:  Dark,
	Styles: NewStyles(Dark),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Resolve picks the palette for a mode. System follows the terminal
// background.
func Resolve(mode model.ThemeMode, darkBackground bool) Theme {
	switch mode {
	case model.ThemeLight:
		return Light
	case model.ThemeDark:
		return Dark
	default:
		if darkBackground {
			return Dark
		}
		return Light
	}
}

// hasDarkBackground queries the terminal once. Asking again while a
// program owns stdin would race its input reader.
var hasDarkBackground = sync.OnceValue(lipgloss.HasDarkBackground)

// Apply makes mode the active theme
func Apply(mode model.ThemeMode) {
	dark := true
	if mode == model.ThemeSystem {
		dark = hasDarkBackground()
	}
	Current.Mode = mode
	SetTheme(Resolve(mode, dark))
}

// CategoryColor returns the color of a task category
func (t Theme) CategoryColor(c model.Category) lipgloss.Color {
	switch c {
	case model.CategoryUrgent:
		return t.CategoryUrgent
	case model.CategoryHigh:
		return t.CategoryHigh
	case model.CategoryLow:
		return t.CategoryLow
	default:
		return t.CategoryMedium
	}
}

// StatusColor returns the color of a display status
func (t Theme) StatusColor(s model.DisplayStatus) lipgloss.Color {
	switch s {
	case model.StatusCompleted:
		return t.StatusCompleted
	case model.StatusOverdue:
		return t.StatusOverdue
	default:
		return t.StatusUndone
	}
}
