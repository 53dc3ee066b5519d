package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/model"
	"github.com/google/uuid"
)

const taskColumns = `timestamp, title, subtitle, category, completed_count, is_done, meeting_link`

// GetAllTasks returns every task with its items, earliest deadline first
func (db *DB) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	return db.queryTasks(ctx, db.DB, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY timestamp
	`)
}

// GetTasksForDate returns tasks whose deadline falls in [start, end)
func (db *DB) GetTasksForDate(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	return db.queryTasks(ctx, db.DB, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp
	`, start.UnixMilli(), end.UnixMilli())
}

// GetTaskByTimestamp returns a single task, or nil if it does not exist
func (db *DB) GetTaskByTimestamp(ctx context.Context, ts int64) (*model.Task, error) {
	return getTask(ctx, db.DB, ts)
}

// InsertTask inserts a task and its items as one unit
func (db *DB) InsertTask(ctx context.Context, task *model.Task) error {
	if err := prepareTask(task); err != nil {
		return err
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := insertTaskRow(ctx, tx, task); err != nil {
			return err
		}
		return insertItems(ctx, tx, task.Timestamp, task.Items)
	}, events.TopicTasks)
}

// UpdateTask replaces a task row and all of its items, then persists the
// completed count recomputed from the new item set
func (db *DB) UpdateTask(ctx context.Context, task *model.Task) error {
	return db.ReplaceTask(ctx, task.Timestamp, task)
}

// ReplaceTask replaces the task stored under from with task, items
// included. When task carries a different timestamp the task is re-keyed
// in the same transaction, so a failed edit leaves the old task untouched.
func (db *DB) ReplaceTask(ctx context.Context, from int64, task *model.Task) error {
	if err := prepareTask(task); err != nil {
		return err
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if task.Timestamp == from {
			return updateTaskRow(ctx, tx, task)
		}

		existing, err := getTask(ctx, tx, from)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrTaskNotFound
		}

		if err := deleteTaskRows(ctx, tx, from); err != nil {
			return err
		}
		if err := insertTaskRow(ctx, tx, task); err != nil {
			return err
		}
		return insertItems(ctx, tx, task.Timestamp, task.Items)
	}, events.TopicTasks)
}

// DeleteTask deletes a task's items and then the task itself
func (db *DB) DeleteTask(ctx context.Context, ts int64) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		return deleteTaskRows(ctx, tx, ts)
	}, events.TopicTasks)
}

// MoveTask changes a task's deadline. The task keeps its items and is
// re-keyed under the new timestamp as one unit.
func (db *DB) MoveTask(ctx context.Context, from, to int64) error {
	if from == to {
		return nil
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		task, err := getTask(ctx, tx, from)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			SELECT ?, title, subtitle, category, completed_count, is_done, meeting_link
			FROM tasks WHERE timestamp = ?
		`, to, from)
		if err != nil {
			return fmt.Errorf("failed to move task %d to %d: %w", from, to, err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE task_items SET task_timestamp = ? WHERE task_timestamp = ?`, to, from); err != nil {
			return fmt.Errorf("failed to move items of task %d: %w", from, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE timestamp = ?`, from); err != nil {
			return fmt.Errorf("failed to delete task %d: %w", from, err)
		}
		return nil
	}, events.TopicTasks)
}

// ToggleTaskItemCompletion sets an item's completed flag.
// The parent task's completed count is left as is; callers recompute it
// with UpdateCompletedCount or re-read the task.
func (db *DB) ToggleTaskItemCompletion(ctx context.Context, itemID string, completed bool) error {
	res, err := db.ExecContext(ctx, `UPDATE task_items SET is_completed = ? WHERE id = ?`,
		boolToInt(completed), itemID)
	if err != nil {
		return fmt.Errorf("failed to toggle item %s: %w", itemID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}

	db.publish(events.TopicTasks)
	return nil
}

// UpdateCompletedCount overwrites a task's completed item aggregate
func (db *DB) UpdateCompletedCount(ctx context.Context, ts int64, count int) error {
	res, err := db.ExecContext(ctx, `UPDATE tasks SET completed_count = ? WHERE timestamp = ?`, count, ts)
	if err != nil {
		return fmt.Errorf("failed to update completed count of task %d: %w", ts, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}

	db.publish(events.TopicTasks)
	return nil
}

// SetTaskDone sets a task's done flag
func (db *DB) SetTaskDone(ctx context.Context, ts int64, done bool) error {
	res, err := db.ExecContext(ctx, `UPDATE tasks SET is_done = ? WHERE timestamp = ?`, boolToInt(done), ts)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", ts, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}

	db.publish(events.TopicTasks)
	return nil
}

// Helper functions

// prepareTask validates a task and fills the derived fields every write
// stores
func prepareTask(task *model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrEmptyTitle
	}
	if task.Category == "" {
		task.Category = model.CategoryMedium
	}
	assignItemIDs(task)
	task.CompletedCount = task.CountCompleted()
	return nil
}

func insertTaskRow(ctx context.Context, tx *sql.Tx, task *model.Task) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.Timestamp, task.Title, task.Subtitle, task.Category,
		task.CompletedCount, boolToInt(task.IsDone), nullString(task.MeetingLink))
	if err != nil {
		return fmt.Errorf("failed to insert task %d: %w", task.Timestamp, err)
	}
	return nil
}

func updateTaskRow(ctx context.Context, tx *sql.Tx, task *model.Task) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, subtitle = ?, category = ?, completed_count = ?, is_done = ?, meeting_link = ?
		WHERE timestamp = ?
	`, task.Title, task.Subtitle, task.Category, task.CompletedCount, boolToInt(task.IsDone),
		nullString(task.MeetingLink), task.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.Timestamp, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_items WHERE task_timestamp = ?`, task.Timestamp); err != nil {
		return fmt.Errorf("failed to clear items of task %d: %w", task.Timestamp, err)
	}
	return insertItems(ctx, tx, task.Timestamp, task.Items)
}

// deleteTaskRows removes a task's items before the task row
func deleteTaskRows(ctx context.Context, tx *sql.Tx, ts int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_items WHERE task_timestamp = ?`, ts); err != nil {
		return fmt.Errorf("failed to delete items of task %d: %w", ts, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE timestamp = ?`, ts); err != nil {
		return fmt.Errorf("failed to delete task %d: %w", ts, err)
	}
	return nil
}

func getTask(ctx context.Context, q querier, ts int64) (*model.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE timestamp = ?`, ts)

	t, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", ts, err)
	}

	items, err := getItems(ctx, q, ts)
	if err != nil {
		return nil, err
	}
	t.Items = items

	return t, nil
}

// queryTasks reads the task rows, closes the cursor and only then loads the
// items. With a single pooled connection a nested query while rows are open
// would deadlock.
func (db *DB) queryTasks(ctx context.Context, q querier, query string, args ...any) ([]model.Task, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range tasks {
		items, err := getItems(ctx, q, tasks[i].Timestamp)
		if err != nil {
			return nil, err
		}
		tasks[i].Items = items
	}

	return tasks, nil
}

func getItems(ctx context.Context, q querier, ts int64) ([]model.TaskItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, task_timestamp, text, is_completed
		FROM task_items
		WHERE task_timestamp = ?
		ORDER BY position
	`, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of task %d: %w", ts, err)
	}
	defer rows.Close()

	var items []model.TaskItem
	for rows.Next() {
		var item model.TaskItem
		var completed int
		if err := rows.Scan(&item.ID, &item.TaskTimestamp, &item.Text, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Completed = completed == 1
		items = append(items, item)
	}

	return items, rows.Err()
}

func insertItems(ctx context.Context, tx *sql.Tx, ts int64, items []model.TaskItem) error {
	for i, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_items (id, task_timestamp, position, text, is_completed)
			VALUES (?, ?, ?, ?, ?)
		`, item.ID, ts, i, item.Text, boolToInt(item.Completed))
		if err != nil {
			return fmt.Errorf("failed to insert item %s of task %d: %w", item.ID, ts, err)
		}
	}
	return nil
}

// assignItemIDs fills missing item ids and ties every item to its task
func assignItemIDs(task *model.Task) {
	for i := range task.Items {
		if task.Items[i].ID == "" {
			task.Items[i].ID = uuid.New().String()
		}
		task.Items[i].TaskTimestamp = task.Timestamp
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var category string
	var isDone int
	var meetingLink sql.NullString

	err := s.Scan(
		&t.Timestamp, &t.Title, &t.Subtitle, &category,
		&t.CompletedCount, &isDone, &meetingLink,
	)
	if err != nil {
		return nil, err
	}

	t.Category = model.Category(category)
	t.IsDone = isDone == 1
	if meetingLink.Valid {
		t.MeetingLink = meetingLink.String
	}

	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
