package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dori/tasknote/internal/events"
	"github.com/dori/tasknote/internal/model"
)

// GetAllNotes returns every note, newest first
func (db *DB) GetAllNotes(ctx context.Context) ([]model.Note, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT timestamp, title, content
		FROM notes
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchNotes returns notes whose title or content contains query
func (db *DB) SearchNotes(ctx context.Context, query string) ([]model.Note, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.QueryContext(ctx, `
		SELECT timestamp, title, content
		FROM notes
		WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		ORDER BY timestamp DESC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetNoteByTimestamp returns a single note, or nil if it does not exist
func (db *DB) GetNoteByTimestamp(ctx context.Context, ts int64) (*model.Note, error) {
	var n model.Note
	err := db.QueryRowContext(ctx, `
		SELECT timestamp, title, content FROM notes WHERE timestamp = ?
	`, ts).Scan(&n.Timestamp, &n.Title, &n.Content)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %d: %w", ts, err)
	}
	return &n, nil
}

// InsertNote creates a new note
func (db *DB) InsertNote(ctx context.Context, note *model.Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return ErrEmptyTitle
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO notes (timestamp, title, content) VALUES (?, ?, ?)
	`, note.Timestamp, note.Title, note.Content)
	if err != nil {
		return fmt.Errorf("failed to insert note %d: %w", note.Timestamp, err)
	}

	db.publish(events.TopicNotes)
	return nil
}

// UpdateNote replaces a note's title and content
func (db *DB) UpdateNote(ctx context.Context, note *model.Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return ErrEmptyTitle
	}

	res, err := db.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ? WHERE timestamp = ?
	`, note.Title, note.Content, note.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", note.Timestamp, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoteNotFound
	}

	db.publish(events.TopicNotes)
	return nil
}

// DeleteNote deletes a note
func (db *DB) DeleteNote(ctx context.Context, ts int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM notes WHERE timestamp = ?`, ts); err != nil {
		return fmt.Errorf("failed to delete note %d: %w", ts, err)
	}

	db.publish(events.TopicNotes)
	return nil
}

func scanNotes(rows *sql.Rows) ([]model.Note, error) {
	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.Timestamp, &n.Title, &n.Content); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
