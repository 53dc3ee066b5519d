package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tasknote/internal/app"
	"github.com/dori/tasknote/internal/model"
	"github.com/dori/tasknote/internal/ui/theme"
)

// NoteMode is what the note view is currently doing with keypresses
type NoteMode int

const (
	NoteModeNormal NoteMode = iota
	NoteModeDetail
	NoteModeAddTitle
	NoteModeAddContent
	NoteModeEdit
	NoteModeSearch
	NoteModeConfirmDelete
)

// NoteView lists notes and shows one at a time
type NoteView struct {
	ctx    context.Context
	app    *app.App
	now    func() time.Time
	width  int
	height int

	notes  []model.Note
	loaded bool
	query  string
	cursor int

	mode         NoteMode
	input        textinput.Model
	pendingTitle string
}

// NewNoteView creates a new note view
func NewNoteView(ctx context.Context, a *app.App) NoteView {
	ti := textinput.New()
	ti.CharLimit = 1024

	return NoteView{
		ctx:   ctx,
		app:   a,
		now:   time.Now,
		input: ti,
	}
}

// SetNotes replaces the displayed snapshot
func (v NoteView) SetNotes(notes []model.Note) NoteView {
	var current int64
	if sel := v.Selected(); sel != nil {
		current = sel.Timestamp
	}

	v.notes = notes
	v.loaded = true
	for i, n := range v.visible() {
		if n.Timestamp == current {
			v.cursor = i
			break
		}
	}
	v.cursor = clamp(v.cursor, len(v.visible()))
	if v.mode == NoteModeDetail && v.Selected() == nil {
		v.mode = NoteModeNormal
	}
	return v
}

// SetSize updates the view dimensions
func (v NoteView) SetSize(width, height int) NoteView {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// Mode returns the current input mode
func (v NoteView) Mode() NoteMode {
	return v.mode
}

// IsInputMode returns true when the view is capturing text input
func (v NoteView) IsInputMode() bool {
	switch v.mode {
	case NoteModeAddTitle, NoteModeAddContent, NoteModeEdit, NoteModeSearch, NoteModeConfirmDelete:
		return true
	}
	return false
}

// visible returns the notes matching the current search
func (v NoteView) visible() []model.Note {
	if v.query == "" {
		return v.notes
	}
	q := strings.ToLower(v.query)
	var out []model.Note
	for _, n := range v.notes {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// Selected returns the note under the cursor
func (v NoteView) Selected() *model.Note {
	notes := v.visible()
	if v.cursor < 0 || v.cursor >= len(notes) {
		return nil
	}
	n := notes[v.cursor]
	return &n
}

// Update handles messages
func (v NoteView) Update(msg tea.Msg) (NoteView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.IsInputMode() && v.mode != NoteModeConfirmDelete {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch v.mode {
	case NoteModeAddTitle, NoteModeAddContent, NoteModeEdit:
		return v.handleInputMode(keyMsg)
	case NoteModeSearch:
		return v.handleSearchMode(keyMsg)
	case NoteModeConfirmDelete:
		return v.handleDeleteConfirm(keyMsg)
	case NoteModeDetail:
		return v.handleDetailMode(keyMsg)
	default:
		return v.handleNormalMode(keyMsg)
	}
}

func (v NoteView) handleNormalMode(msg tea.KeyMsg) (NoteView, tea.Cmd) {
	n := len(v.visible())

	switch msg.String() {
	case "up", "k":
		v.cursor = clamp(v.cursor-1, n)
	case "down", "j":
		v.cursor = clamp(v.cursor+1, n)
	case "g":
		v.cursor = 0
	case "G":
		v.cursor = clamp(n-1, n)
	case "enter", "l", "right":
		if v.Selected() != nil {
			v.mode = NoteModeDetail
		}
	case "a":
		return v.startInput(NoteModeAddTitle, "Note title...", "")
	case "e":
		if sel := v.Selected(); sel != nil {
			return v.startInput(NoteModeEdit, "Note content...", sel.Content)
		}
	case "/":
		return v.startInput(NoteModeSearch, "Search notes...", v.query)
	case "esc":
		if v.query != "" {
			v.query = ""
			v.cursor = 0
		}
	case "d":
		if v.Selected() != nil {
			v.mode = NoteModeConfirmDelete
		}
	}

	return v, nil
}

func (v NoteView) handleDetailMode(msg tea.KeyMsg) (NoteView, tea.Cmd) {
	switch msg.String() {
	case "esc", "h", "left", "enter":
		v.mode = NoteModeNormal
	case "e":
		if sel := v.Selected(); sel != nil {
			return v.startInput(NoteModeEdit, "Note content...", sel.Content)
		}
	case "d":
		v.mode = NoteModeConfirmDelete
	}
	return v, nil
}

func (v NoteView) startInput(mode NoteMode, placeholder, value string) (NoteView, tea.Cmd) {
	v.mode = mode
	v.input.Placeholder = placeholder
	v.input.SetValue(value)
	v.input.CursorEnd()
	v.input.Focus()
	return v, textinput.Blink
}

func (v NoteView) handleInputMode(msg tea.KeyMsg) (NoteView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = NoteModeNormal
		v.pendingTitle = ""
		v.input.Blur()
		return v, nil

	case "enter":
		text := strings.TrimSpace(v.input.Value())
		switch v.mode {
		case NoteModeAddTitle:
			if text == "" {
				return v, nil
			}
			v.pendingTitle = text
			return v.startInput(NoteModeAddContent, "Note content (optional)...", "")

		case NoteModeAddContent:
			title := v.pendingTitle
			v.pendingTitle = ""
			v.mode = NoteModeNormal
			v.input.Blur()
			return v, v.createNote(title, text)

		case NoteModeEdit:
			v.mode = NoteModeNormal
			v.input.Blur()
			if sel := v.Selected(); sel != nil {
				note := *sel
				note.Content = text
				return v, v.updateNote(note)
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v NoteView) handleSearchMode(msg tea.KeyMsg) (NoteView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.mode = NoteModeNormal
		v.input.Blur()
		return v, nil
	case "esc":
		v.mode = NoteModeNormal
		v.query = ""
		v.cursor = 0
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.query = strings.TrimSpace(v.input.Value())
	v.cursor = clamp(v.cursor, len(v.visible()))
	return v, cmd
}

func (v NoteView) handleDeleteConfirm(msg tea.KeyMsg) (NoteView, tea.Cmd) {
	v.mode = NoteModeNormal
	if msg.String() == "y" || msg.String() == "Y" {
		if sel := v.Selected(); sel != nil {
			return v, v.deleteNote(*sel)
		}
	}
	return v, nil
}

func (v NoteView) createNote(title, content string) tea.Cmd {
	note := &model.Note{
		Timestamp: v.now().UnixMilli(),
		Title:     title,
		Content:   content,
	}
	return func() tea.Msg {
		if err := v.app.DB.InsertNote(v.ctx, note); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Note saved: %s", note.Title)}
	}
}

func (v NoteView) updateNote(note model.Note) tea.Cmd {
	return func() tea.Msg {
		if err := v.app.DB.UpdateNote(v.ctx, &note); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Note updated: %s", note.Title)}
	}
}

func (v NoteView) deleteNote(note model.Note) tea.Cmd {
	return func() tea.Msg {
		if err := v.app.DB.DeleteNote(v.ctx, note.Timestamp); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Deleted: %s", note.Title)}
	}
}

// View renders the note list or the open note
func (v NoteView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	switch v.mode {
	case NoteModeAddTitle, NoteModeAddContent, NoteModeEdit, NoteModeSearch:
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n")
	case NoteModeConfirmDelete:
		if sel := v.Selected(); sel != nil {
			warn := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
			b.WriteString(warn.Render(fmt.Sprintf("Delete note %q? (y/n)", sel.Title)))
			b.WriteString("\n")
		}
	}

	if !v.loaded {
		b.WriteString(styles.Label.Render("Loading notes..."))
		return b.String()
	}

	if v.mode == NoteModeDetail {
		if sel := v.Selected(); sel != nil {
			b.WriteString(v.renderDetail(*sel))
			return b.String()
		}
	}

	if v.query != "" {
		b.WriteString(styles.Label.Render(fmt.Sprintf("Filter: %s", v.query)))
		b.WriteString("\n")
	}

	notes := v.visible()
	if len(notes) == 0 {
		if v.query != "" {
			b.WriteString(styles.Label.Render("No matching notes."))
		} else {
			b.WriteString(styles.Label.Render("No notes yet. Press a to add one."))
		}
		return b.String()
	}

	for i, n := range notes {
		prefix := "  "
		if i == v.cursor {
			prefix = lipgloss.NewStyle().Foreground(t.Primary).Render("> ")
		}
		date := styles.Label.Render(n.Created().Format("Jan 2 15:04"))
		titleWidth := v.width - lipgloss.Width(prefix) - lipgloss.Width(date) - 2
		b.WriteString(prefix + styles.TaskNormal.Render(truncate(n.Title, titleWidth)) + "  " + date)
		b.WriteString("\n")
	}

	return b.String()
}

func (v NoteView) renderDetail(n model.Note) string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(n.Title))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render(n.Created().Format("Monday, Jan 2 2006 15:04")))
	b.WriteString("\n\n")
	if n.Content == "" {
		b.WriteString(styles.Label.Render("(empty)"))
	} else {
		b.WriteString(n.Content)
	}

	width := v.width - 2
	if width < 20 {
		width = 20
	}
	return styles.Panel.Width(width).Render(b.String())
}
