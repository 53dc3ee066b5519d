package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/model"
	"github.com/dori/tasknote/internal/ui/theme"
	"github.com/dori/tasknote/internal/ui/views"
)

// refreshInterval is how often the store is re-read to pick up writes
// made by commands running in other processes
const refreshInterval = 5 * time.Second

// RootModel is the main application model that manages views
type RootModel struct {
	ctx    context.Context
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	tasksView   views.TaskView
	notesView   views.NoteView
	helpVisible bool

	tasks  <-chan []model.Task
	notes  <-chan []model.Note
	themes <-chan model.ThemeMode

	themeLoaded  bool
	refreshEvery time.Duration

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model. The data streams start here and
// end when ctx is done.
func NewRootModel(ctx context.Context, application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		ctx:          ctx,
		app:          application,
		keys:         DefaultKeyMap(),
		help:         h,
		currentView:  ViewTasks,
		tasksView:    views.NewTaskView(ctx, application),
		notesView:    views.NewNoteView(ctx, application),
		tasks:        application.DB.WatchTasks(ctx),
		notes:        application.DB.WatchNotes(ctx),
		themes:       application.Prefs.Watch(ctx),
		refreshEvery: refreshInterval,
	}
}

// Init starts listening on every stream
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(
		waitTasks(m.tasks),
		waitNotes(m.notes),
		waitTheme(m.themes),
		refreshTick(m.refreshEvery),
	)
}

func waitTasks(ch <-chan []model.Task) tea.Cmd {
	return func() tea.Msg {
		tasks, ok := <-ch
		if !ok {
			return streamClosedMsg{name: "tasks"}
		}
		return TasksSnapshotMsg{Tasks: tasks}
	}
}

func waitNotes(ch <-chan []model.Note) tea.Cmd {
	return func() tea.Msg {
		notes, ok := <-ch
		if !ok {
			return streamClosedMsg{name: "notes"}
		}
		return NotesSnapshotMsg{Notes: notes}
	}
}

func waitTheme(ch <-chan model.ThemeMode) tea.Cmd {
	return func() tea.Msg {
		mode, ok := <-ch
		if !ok {
			return streamClosedMsg{name: "preferences"}
		}
		return ThemeModeMsg{Mode: mode}
	}
}

func refreshTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// isInputMode reports whether the current view is capturing text
func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewTasks:
		return m.tasksView.IsInputMode()
	case ViewNotes:
		return m.notesView.IsInputMode()
	}
	return false
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.tasksView = m.tasksView.SetSize(m.width, contentHeight)
		m.notesView = m.notesView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			return m, m.cycleTheme()
		}

		if isInputMode {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil

		case m.helpVisible && key.Matches(msg, m.keys.Back):
			m.helpVisible = false
			m.help.ShowAll = false
			return m, nil

		case key.Matches(msg, m.keys.TasksView):
			m.currentView = ViewTasks
			m.helpVisible = false
			return m, nil

		case key.Matches(msg, m.keys.NotesView):
			m.currentView = ViewNotes
			m.helpVisible = false
			return m, nil
		}

		if m.helpVisible {
			return m, nil
		}

	case views.ErrorMsg:
		slog.Error("action failed", "view", m.currentView.String(), "error", msg.Err)
		m.errorMsg = msg.Err.Error()
		return m, nil

	case views.StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case TasksSnapshotMsg:
		m.app.SyncReminders(msg.Tasks)
		m.tasksView = m.tasksView.SetTasks(msg.Tasks)
		return m, waitTasks(m.tasks)

	case NotesSnapshotMsg:
		m.notesView = m.notesView.SetNotes(msg.Notes)
		return m, waitNotes(m.notes)

	case ThemeModeMsg:
		changed := m.themeLoaded && msg.Mode != theme.Current.Mode
		theme.Apply(msg.Mode)
		m.themeLoaded = true
		if changed {
			m.statusMsg = fmt.Sprintf("Theme: %s", msg.Mode)
		}
		return m, waitTheme(m.themes)

	case streamClosedMsg:
		if m.ctx.Err() == nil {
			slog.Warn("stream closed", "stream", msg.name)
		}
		return m, nil

	case refreshTickMsg:
		m.app.DB.Refresh()
		return m, refreshTick(m.refreshEvery)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewTasks:
		m.tasksView, cmd = m.tasksView.Update(msg)
	case ViewNotes:
		m.notesView, cmd = m.notesView.Update(msg)
	}
	return m, cmd
}

// cycleTheme stores the next theme mode. The preference stream applies it.
func (m RootModel) cycleTheme() tea.Cmd {
	next := theme.Current.Mode.Next()
	return func() tea.Msg {
		if err := m.app.Prefs.SetTheme(m.ctx, next); err != nil {
			return views.ErrorMsg{Err: err}
		}
		return nil
	}
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer (status + 2 hint lines)
	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewTasks:
			content = m.tasksView.View()
		case ViewNotes:
			content = m.notesView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("tasknote")

	var tabs []string
	for _, v := range []View{ViewTasks, ViewNotes} {
		label := fmt.Sprintf("%d %s", int(v)+1, v)
		if v == m.currentView {
			tabs = append(tabs, styles.TabOn.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}

	themeIndicator := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1).
		Render(fmt.Sprintf("theme: %s", theme.Current.Mode))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, tabs...)...)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(themeIndicator)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string

	switch {
	case m.helpVisible:
		line1 = key("?/esc", "close help") + sep + key("q", "quit")

	case m.isInputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")

	case m.currentView == ViewTasks && m.tasksView.Mode() == views.TaskModeItems:
		line1 = key("j/k", "items") + sep +
			key("space", "check") + sep +
			key("i", "add item") + sep +
			key("esc", "back")

	case m.currentView == ViewTasks:
		line1 = key("a", "add") + sep +
			key("enter", "items") + sep +
			key("tab", "done") + sep +
			key("i", "add item") + sep +
			key("e", "edit") + sep +
			key("p", "priority") + sep +
			key("d", "del")
		line2 = key("2", "notes") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help") + sep +
			key("q", "quit")

	case m.currentView == ViewNotes && m.notesView.Mode() == views.NoteModeDetail:
		line1 = key("e", "edit") + sep +
			key("d", "del") + sep +
			key("esc", "back")

	case m.currentView == ViewNotes:
		line1 = key("a", "add") + sep +
			key("enter", "open") + sep +
			key("e", "edit") + sep +
			key("/", "search") + sep +
			key("d", "del")
		line2 = key("1", "tasks") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help") + sep +
			key("q", "quit")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("tasknote help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	quickAdd := lipgloss.NewStyle().Foreground(t.Subtle)
	b.WriteString(quickAdd.Render("Quick add: Review PR !high due:tomorrow"))
	b.WriteString("\n")
	b.WriteString(quickAdd.Render("Due: today, tomorrow, fri, 3d, 17:00, 2026-01-15"))

	return b.String()
}

// Run starts the interactive interface and blocks until the user quits
func Run(ctx context.Context, a *app.App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mode, err := a.Prefs.Theme(ctx)
	if err != nil {
		slog.Warn("failed to read theme preference", "error", err)
	}
	theme.Apply(mode)

	p := tea.NewProgram(NewRootModel(ctx, a), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
