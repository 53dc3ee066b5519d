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
	"github.com/dori/tasknote/internal/quickadd"
	"github.com/dori/tasknote/internal/ui/theme"
)

// TaskMode is what the task view is currently doing with keypresses
type TaskMode int

const (
	TaskModeNormal TaskMode = iota
	TaskModeItems
	TaskModeAdd
	TaskModeAddItem
	TaskModeEdit
	TaskModeConfirmDelete
)

// TaskView lists tasks and the checklist of the task under the cursor
type TaskView struct {
	ctx    context.Context
	app    *app.App
	now    func() time.Time
	width  int
	height int

	tasks      []model.Task
	loaded     bool
	cursor     int
	itemCursor int

	mode    TaskMode
	input   textinput.Model
	editing int64 // timestamp of the task being edited
}

// NewTaskView creates a new task view
func NewTaskView(ctx context.Context, a *app.App) TaskView {
	ti := textinput.New()
	ti.CharLimit = 256

	return TaskView{
		ctx:   ctx,
		app:   a,
		now:   time.Now,
		input: ti,
	}
}

// SetTasks replaces the displayed snapshot, keeping the cursor on the
// same task when it still exists
func (v TaskView) SetTasks(tasks []model.Task) TaskView {
	var current int64
	if sel := v.Selected(); sel != nil {
		current = sel.Timestamp
	}

	v.tasks = tasks
	v.loaded = true
	for i, t := range tasks {
		if t.Timestamp == current {
			v.cursor = i
			break
		}
	}
	v.cursor = clamp(v.cursor, len(v.tasks))

	if sel := v.Selected(); sel != nil {
		v.itemCursor = clamp(v.itemCursor, len(sel.Items))
	} else {
		v.itemCursor = 0
	}
	if v.mode == TaskModeItems && (v.Selected() == nil || len(v.Selected().Items) == 0) {
		v.mode = TaskModeNormal
	}
	return v
}

// SetSize updates the view dimensions
func (v TaskView) SetSize(width, height int) TaskView {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// Mode returns the current input mode
func (v TaskView) Mode() TaskMode {
	return v.mode
}

// IsInputMode returns true when the view is capturing text input
func (v TaskView) IsInputMode() bool {
	switch v.mode {
	case TaskModeAdd, TaskModeAddItem, TaskModeEdit, TaskModeConfirmDelete:
		return true
	}
	return false
}

// Selected returns the task under the cursor
func (v TaskView) Selected() *model.Task {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return nil
	}
	return &v.tasks[v.cursor]
}

// Update handles messages
func (v TaskView) Update(msg tea.Msg) (TaskView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.mode == TaskModeAdd || v.mode == TaskModeAddItem || v.mode == TaskModeEdit {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	switch v.mode {
	case TaskModeAdd:
		return v.handleAddMode(keyMsg)
	case TaskModeAddItem:
		return v.handleAddItemMode(keyMsg)
	case TaskModeEdit:
		return v.handleEditMode(keyMsg)
	case TaskModeConfirmDelete:
		return v.handleDeleteConfirm(keyMsg)
	case TaskModeItems:
		return v.handleItemsMode(keyMsg)
	default:
		return v.handleNormalMode(keyMsg)
	}
}

func (v TaskView) handleNormalMode(msg tea.KeyMsg) (TaskView, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.cursor = clamp(v.cursor-1, len(v.tasks))
		v.itemCursor = 0
	case "down", "j":
		v.cursor = clamp(v.cursor+1, len(v.tasks))
		v.itemCursor = 0
	case "g":
		v.cursor = 0
		v.itemCursor = 0
	case "G":
		v.cursor = clamp(len(v.tasks)-1, len(v.tasks))
		v.itemCursor = 0

	case "a":
		v.mode = TaskModeAdd
		v.input.Placeholder = "Buy milk !high due:tomorrow"
		v.input.SetValue("")
		v.input.Focus()
		return v, textinput.Blink

	case "i":
		if v.Selected() == nil {
			return v, nil
		}
		v.mode = TaskModeAddItem
		v.input.Placeholder = "New checklist item..."
		v.input.SetValue("")
		v.input.Focus()
		return v, textinput.Blink

	case "e":
		if sel := v.Selected(); sel != nil {
			v.mode = TaskModeEdit
			v.editing = sel.Timestamp
			v.input.Placeholder = "Title !priority due:date"
			v.input.SetValue(sel.Title + " !" + string(sel.Category))
			v.input.CursorEnd()
			v.input.Focus()
			return v, textinput.Blink
		}

	case "enter", "l", "right":
		if sel := v.Selected(); sel != nil && len(sel.Items) > 0 {
			v.mode = TaskModeItems
			v.itemCursor = clamp(v.itemCursor, len(sel.Items))
		}

	case "tab", "x":
		if sel := v.Selected(); sel != nil {
			return v, v.setDone(sel.Timestamp, !sel.IsDone)
		}

	case "p":
		if sel := v.Selected(); sel != nil {
			return v, v.cycleCategory(*sel)
		}

	case "d":
		if v.Selected() != nil {
			v.mode = TaskModeConfirmDelete
		}
	}

	return v, nil
}

func (v TaskView) handleItemsMode(msg tea.KeyMsg) (TaskView, tea.Cmd) {
	sel := v.Selected()
	if sel == nil {
		v.mode = TaskModeNormal
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		v.itemCursor = clamp(v.itemCursor-1, len(sel.Items))
	case "down", "j":
		v.itemCursor = clamp(v.itemCursor+1, len(sel.Items))
	case " ", "enter", "x":
		if v.itemCursor < len(sel.Items) {
			item := sel.Items[v.itemCursor]
			return v, v.toggleItem(sel.Timestamp, item.ID, !item.Completed)
		}
	case "i":
		v.mode = TaskModeAddItem
		v.input.Placeholder = "New checklist item..."
		v.input.SetValue("")
		v.input.Focus()
		return v, textinput.Blink
	case "esc", "h", "left":
		v.mode = TaskModeNormal
	}

	return v, nil
}

// handleAddMode handles keypresses in add mode
func (v TaskView) handleAddMode(msg tea.KeyMsg) (TaskView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		if text != "" {
			v.mode = TaskModeNormal
			v.input.Blur()
			return v, v.createTask(text)
		}
	case "esc":
		v.mode = TaskModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v TaskView) handleAddItemMode(msg tea.KeyMsg) (TaskView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		sel := v.Selected()
		if text != "" && sel != nil {
			v.mode = TaskModeItems
			v.input.Blur()
			return v, v.addItem(*sel, text)
		}
	case "esc":
		v.mode = TaskModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleEditMode rewrites the selected task from a quick-add line. The
// deadline only moves when the line carries a due: marker.
func (v TaskView) handleEditMode(msg tea.KeyMsg) (TaskView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			return v, nil
		}
		v.mode = TaskModeNormal
		v.input.Blur()
		for _, task := range v.tasks {
			if task.Timestamp == v.editing {
				return v, v.editTask(task, text)
			}
		}
		return v, nil
	case "esc":
		v.mode = TaskModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v TaskView) handleDeleteConfirm(msg tea.KeyMsg) (TaskView, tea.Cmd) {
	v.mode = TaskModeNormal
	if msg.String() == "y" || msg.String() == "Y" {
		if sel := v.Selected(); sel != nil {
			return v, v.deleteTask(sel.Timestamp, sel.Title)
		}
	}
	return v, nil
}

// Commands. Results arrive through the task stream, so they only report
// status.

func (v TaskView) createTask(text string) tea.Cmd {
	now := v.now()
	return func() tea.Msg {
		parsed := quickadd.Parse(text, now)
		if parsed.Title == "" {
			return StatusMsg{Message: "Task needs a title"}
		}
		if !parsed.HasDue {
			parsed.Due = quickadd.EndOfDay(now)
		}

		task := &model.Task{
			Timestamp: parsed.Due.UnixMilli(),
			Title:     parsed.Title,
			Category:  parsed.Category,
		}
		if err := v.app.SaveTask(v.ctx, task); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Created: %s (%s)", task.Title, model.FormatDue(task.Due(), now))}
	}
}

func (v TaskView) editTask(task model.Task, text string) tea.Cmd {
	now := v.now()
	from := task.Timestamp
	return func() tea.Msg {
		parsed := quickadd.Parse(text, now)
		if parsed.Title == "" {
			return StatusMsg{Message: "Task needs a title"}
		}
		task.Title = parsed.Title
		task.Category = parsed.Category
		if parsed.HasDue {
			task.Timestamp = parsed.Due.UnixMilli()
		}
		if err := v.app.EditTask(v.ctx, from, &task); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Updated: %s (%s)", task.Title, model.FormatDue(task.Due(), now))}
	}
}

func (v TaskView) addItem(task model.Task, text string) tea.Cmd {
	items := make([]model.TaskItem, len(task.Items), len(task.Items)+1)
	copy(items, task.Items)
	task.Items = append(items, model.TaskItem{Text: text})

	return func() tea.Msg {
		if err := v.app.EditTask(v.ctx, task.Timestamp, &task); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

func (v TaskView) setDone(ts int64, done bool) tea.Cmd {
	return func() tea.Msg {
		if err := v.app.SetDone(v.ctx, ts, done); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

func (v TaskView) toggleItem(ts int64, itemID string, completed bool) tea.Cmd {
	return func() tea.Msg {
		if _, err := v.app.ToggleItem(v.ctx, ts, itemID, completed); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

func (v TaskView) cycleCategory(task model.Task) tea.Cmd {
	categories := model.Categories()
	next := categories[0]
	for i, c := range categories {
		if c == task.Category {
			next = categories[(i+1)%len(categories)]
			break
		}
	}
	task.Category = next

	return func() tea.Msg {
		if err := v.app.EditTask(v.ctx, task.Timestamp, &task); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Priority: %s", next)}
	}
}

func (v TaskView) deleteTask(ts int64, title string) tea.Cmd {
	return func() tea.Msg {
		if err := v.app.RemoveTask(v.ctx, ts); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Message: fmt.Sprintf("Deleted: %s", title)}
	}
}

// View renders the task list with the selected task's checklist
func (v TaskView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	now := v.now()

	var b strings.Builder

	switch v.mode {
	case TaskModeAdd, TaskModeAddItem, TaskModeEdit:
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n")
	case TaskModeConfirmDelete:
		if sel := v.Selected(); sel != nil {
			warn := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
			b.WriteString(warn.Render(fmt.Sprintf("Delete %q and its checklist? (y/n)", sel.Title)))
			b.WriteString("\n")
		}
	}

	if !v.loaded {
		b.WriteString(styles.Label.Render("Loading tasks..."))
		return b.String()
	}
	if len(v.tasks) == 0 {
		b.WriteString(styles.Label.Render("No tasks yet. Press a to add one."))
		return b.String()
	}

	for i, task := range v.tasks {
		b.WriteString(v.renderTask(task, i == v.cursor, now))
		b.WriteString("\n")
	}

	if sel := v.Selected(); sel != nil {
		b.WriteString("\n")
		b.WriteString(v.renderDetail(*sel, now))
	}

	return b.String()
}

func (v TaskView) renderTask(task model.Task, isCursor bool, now time.Time) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	checkbox := "[ ]"
	if task.IsDone {
		checkbox = "[x]"
	}

	status := task.Status(now)
	titleStyle := styles.TaskNormal
	switch status {
	case model.StatusCompleted:
		titleStyle = styles.TaskDone
	case model.StatusOverdue:
		titleStyle = styles.TaskOverdue
	}

	marker := lipgloss.NewStyle().Foreground(t.CategoryColor(task.Category)).Render("●")
	due := styles.DueDate.Render(model.FormatDue(task.Due(), now))
	statusStr := lipgloss.NewStyle().Foreground(t.StatusColor(status)).Render(status.String())

	var progress string
	if len(task.Items) > 0 {
		done, total := task.Progress()
		progress = fmt.Sprintf(" %s %d/%d", ProgressBar(task.ProgressPercent(), 10), done, total)
	}

	prefix := "  "
	if isCursor {
		prefix = lipgloss.NewStyle().Foreground(t.Primary).Render("> ")
	}

	right := progress + "  " + due + "  " + statusStr
	titleWidth := v.width - lipgloss.Width(prefix+checkbox+" "+marker+" ") - lipgloss.Width(right) - 2
	title := titleStyle.Render(truncate(task.Title, titleWidth))

	return prefix + checkbox + " " + marker + " " + title + right
}

func (v TaskView) renderDetail(task model.Task, now time.Time) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(task.Title))
	if task.Subtitle != "" {
		b.WriteString("  " + styles.Subtitle.Render(task.Subtitle))
	}
	b.WriteString("\n")
	b.WriteString(styles.Label.Render(fmt.Sprintf("Due %s · %s", model.FormatDue(task.Due(), now), task.Category)))
	if task.MeetingLink != "" {
		b.WriteString("  " + styles.Link.Render(task.MeetingLink))
	}

	if len(task.Items) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render("No checklist. Press i to add an item."))
	} else {
		b.WriteString("\n")
		b.WriteString(ProgressBar(task.ProgressPercent(), 20))
		b.WriteString(fmt.Sprintf(" %d%%", task.ProgressPercent()))
		for i, item := range task.Items {
			box := "[ ]"
			style := styles.TaskNormal
			if item.Completed {
				box = "[x]"
				style = styles.TaskDone
			}
			prefix := "  "
			if v.mode == TaskModeItems && i == v.itemCursor {
				prefix = lipgloss.NewStyle().Foreground(t.Primary).Render("> ")
			}
			b.WriteString("\n" + prefix + box + " " + style.Render(item.Text))
		}
	}

	width := v.width - 2
	if width < 20 {
		width = 20
	}
	return styles.Panel.Width(width).Render(b.String())
}
