package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dori/tasknote/internal/db"
	"github.com/dori/tasknote/internal/model"
)

// ErrNoDeadline is returned for tasks saved without a timestamp
var ErrNoDeadline = errors.New("task needs a deadline")

// maxSlotProbe bounds the search for a free deadline slot
const maxSlotProbe = 1000

// SaveTask stores a new task and schedules its reminder. A deadline that
// is already taken is moved forward by a millisecond at a time.
func (a *App) SaveTask(ctx context.Context, task *model.Task) error {
	if task.Timestamp == 0 {
		return ErrNoDeadline
	}

	ts, err := a.freeSlot(ctx, task.Timestamp, 0)
	if err != nil {
		return err
	}
	task.Timestamp = ts

	if err := a.DB.InsertTask(ctx, task); err != nil {
		return err
	}

	a.schedule(*task)
	return nil
}

// EditTask replaces the task stored under from with task. A changed
// deadline re-keys the task in the same transaction; the old reminder is
// cancelled only once the edit is committed.
func (a *App) EditTask(ctx context.Context, from int64, task *model.Task) error {
	if task.Timestamp == 0 {
		return ErrNoDeadline
	}
	if strings.TrimSpace(task.Title) == "" {
		return db.ErrEmptyTitle
	}

	edited := *task
	if edited.Timestamp != from {
		ts, err := a.freeSlot(ctx, edited.Timestamp, from)
		if err != nil {
			return err
		}
		edited.Timestamp = ts
	}

	if err := a.DB.ReplaceTask(ctx, from, &edited); err != nil {
		return err
	}

	if edited.Timestamp != from {
		a.Scheduler.Cancel(from)
	}
	*task = edited
	a.schedule(*task)
	return nil
}

// RemoveTask deletes a task and its reminder
func (a *App) RemoveTask(ctx context.Context, ts int64) error {
	if err := a.DB.DeleteTask(ctx, ts); err != nil {
		return err
	}
	a.Scheduler.Cancel(ts)
	return nil
}

// SetDone marks a task done or not done. Done tasks lose their reminder.
func (a *App) SetDone(ctx context.Context, ts int64, done bool) error {
	if err := a.DB.SetTaskDone(ctx, ts, done); err != nil {
		return err
	}

	task, err := a.DB.GetTaskByTimestamp(ctx, ts)
	if err != nil {
		return err
	}
	if task != nil {
		a.schedule(*task)
	}
	return nil
}

// ToggleItem sets one checklist item of a task and stores the recomputed
// completed count. It returns the task as persisted.
func (a *App) ToggleItem(ctx context.Context, ts int64, itemID string, completed bool) (*model.Task, error) {
	task, err := a.DB.GetTaskByTimestamp(ctx, ts)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, db.ErrTaskNotFound
	}
	if _, ok := task.Item(itemID); !ok {
		return nil, db.ErrItemNotFound
	}

	if err := a.DB.ToggleTaskItemCompletion(ctx, itemID, completed); err != nil {
		return nil, err
	}

	task, err = a.DB.GetTaskByTimestamp(ctx, ts)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, db.ErrTaskNotFound
	}

	task.CompletedCount = task.CountCompleted()
	if err := a.DB.UpdateCompletedCount(ctx, ts, task.CompletedCount); err != nil {
		return nil, err
	}
	return task, nil
}

// SyncReminders reconciles reminders with a full task snapshot
func (a *App) SyncReminders(tasks []model.Task) {
	if s, ok := a.Scheduler.(interface{ Sync([]model.Task) }); ok {
		s.Sync(tasks)
	}
}

func (a *App) schedule(task model.Task) {
	if err := a.Scheduler.Schedule(task); err != nil {
		slog.Warn("failed to schedule reminder", "task", task.Timestamp, "error", err)
	}
}

// freeSlot returns the first unused timestamp at or after ts. The slot
// held by self counts as free.
func (a *App) freeSlot(ctx context.Context, ts, self int64) (int64, error) {
	for i := 0; i < maxSlotProbe; i++ {
		candidate := ts + int64(i)
		if candidate == self {
			return candidate, nil
		}
		existing, err := a.DB.GetTaskByTimestamp(ctx, candidate)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("no free slot near deadline %d", ts)
}
