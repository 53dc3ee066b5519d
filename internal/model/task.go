package model

import (
	"strings"
	"time"
)

// DisplayStatus is the derived state shown next to a task
type DisplayStatus int

const (
	StatusUndone DisplayStatus = iota
	StatusCompleted
	StatusOverdue
)

// String returns the display name for a status
func (s DisplayStatus) String() string {
	switch s {
	case StatusUndone:
		return "Undone"
	case StatusCompleted:
		return "Completed"
	case StatusOverdue:
		return "Overdue"
	default:
		return "Unknown"
	}
}

// Category represents the priority label of a task
type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
	CategoryUrgent Category = "urgent"
)

// Categories returns the fixed category set, lowest first
func Categories() []Category {
	return []Category{CategoryLow, CategoryMedium, CategoryHigh, CategoryUrgent}
}

// ParseCategory maps a name or short alias to a Category
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return CategoryLow, true
	case "medium", "med", "m":
		return CategoryMedium, true
	case "high", "hi", "h":
		return CategoryHigh, true
	case "urgent", "u":
		return CategoryUrgent, true
	default:
		return "", false
	}
}

// Weight returns a numeric weight for sorting by category
func (c Category) Weight() int {
	switch c {
	case CategoryUrgent:
		return 4
	case CategoryHigh:
		return 3
	case CategoryMedium:
		return 2
	case CategoryLow:
		return 1
	default:
		return 2
	}
}

// TaskItem is a checklist entry that belongs to exactly one task
type TaskItem struct {
	ID            string `json:"id"`
	TaskTimestamp int64  `json:"task_timestamp"`
	Text          string `json:"text"`
	Completed     bool   `json:"completed"`
}

// Task is a to-do entry. Timestamp is the creation/deadline instant in unix
// milliseconds and doubles as the primary key.
type Task struct {
	Timestamp      int64      `json:"timestamp"`
	Title          string     `json:"title"`
	Subtitle       string     `json:"subtitle,omitempty"`
	Category       Category   `json:"category"`
	Items          []TaskItem `json:"items,omitempty"`
	CompletedCount int        `json:"completed_count"`
	IsDone         bool       `json:"is_done"`
	MeetingLink    string     `json:"meeting_link,omitempty"`
}

// Due returns the task deadline
func (t *Task) Due() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// CountCompleted counts the items with the completed flag set
func (t *Task) CountCompleted() int {
	n := 0
	for _, item := range t.Items {
		if item.Completed {
			n++
		}
	}
	return n
}

// Progress returns the persisted completed count and the item total
func (t *Task) Progress() (done, total int) {
	return t.CompletedCount, len(t.Items)
}

// ProgressPercent returns the completion percentage, 0 for tasks without items
func (t *Task) ProgressPercent() int {
	done, total := t.Progress()
	if total == 0 {
		return 0
	}
	if done > total {
		done = total
	}
	return done * 100 / total
}

// Status derives the display status at the given instant
func (t *Task) Status(now time.Time) DisplayStatus {
	if t.IsDone {
		return StatusCompleted
	}
	if now.After(t.Due()) {
		return StatusOverdue
	}
	return StatusUndone
}

// IsOverdue returns true if the task is past its deadline and not done
func (t *Task) IsOverdue() bool {
	return t.Status(time.Now()) == StatusOverdue
}

// Item returns the item with the given id
func (t *Task) Item(id string) (*TaskItem, bool) {
	for i := range t.Items {
		if t.Items[i].ID == id {
			return &t.Items[i], true
		}
	}
	return nil, false
}
