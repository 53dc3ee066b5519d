package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dori/tasknote/internal/events"
)

// GetPreference returns the stored value for key and whether it was set
func (db *DB) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

// SetPreference stores value under key, replacing any previous value
func (db *DB) SetPreference(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}

	db.publish(events.TopicPreferences)
	return nil
}
