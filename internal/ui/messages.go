package ui

import (
	"time"

	"github.com/dori/tasknote/internal/model"
)

// View represents the current active view
type View int

const (
	ViewTasks View = iota
	ViewNotes
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewTasks:
		return "Tasks"
	case ViewNotes:
		return "Notes"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// TasksSnapshotMsg carries the latest task list from the task stream
type TasksSnapshotMsg struct {
	Tasks []model.Task
}

// NotesSnapshotMsg carries the latest note list from the note stream
type NotesSnapshotMsg struct {
	Notes []model.Note
}

// ThemeModeMsg carries the stored theme mode from the preference stream
type ThemeModeMsg struct {
	Mode model.ThemeMode
}

// streamClosedMsg is sent once a stream channel closes
type streamClosedMsg struct {
	name string
}

// refreshTickMsg asks the store to re-read everything
type refreshTickMsg time.Time
