// Package db is the local persistence layer for tasks, notes and preferences.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dori/tasknote/internal/events"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
	driver Driver
	bus    *events.Bus
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens a database connection with the given driver and runs migrations.
// A nil bus gets a private one; pass a shared bus to observe changes from
// other components.
func Open(ctx context.Context, dbPath string, driver Driver, bus *events.Bus) (*DB, error) {
	if driver == nil {
		driver = cgoDriver{}
	}
	if bus == nil {
		bus = events.NewBus()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	sqlDB, err := driver.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{DB: sqlDB, driver: driver, bus: bus}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("database opened", "path", dbPath, "driver", driver.Name())
	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *DB) migrate() error {
	goose.SetLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Driver returns the storage driver the connection was opened with
func (db *DB) Driver() Driver {
	return db.driver
}

// Bus returns the change bus the database publishes to
func (db *DB) Bus() *events.Bus {
	return db.bus
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction executes fn within a transaction and publishes the given
// topics once the transaction has committed
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error, topics ...events.Topic) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.publish(topics...)
	return nil
}

// Refresh signals every watcher to re-read. Used to pick up writes made
// by another process.
func (db *DB) Refresh() {
	db.publish(events.TopicTasks, events.TopicNotes, events.TopicPreferences)
}

func (db *DB) publish(topics ...events.Topic) {
	for _, topic := range topics {
		db.bus.Publish(topic)
	}
}
