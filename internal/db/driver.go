package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver opens a connection to the storage engine for one build target
type Driver interface {
	// Name identifies the driver in config files
	Name() string

	// Open returns a configured connection pool for the database file
	Open(ctx context.Context, path string) (*sql.DB, error)
}

const (
	DriverCgo  = "cgo"
	DriverPure = "pure"
)

// DefaultDriver is used when the config does not name one
const DefaultDriver = DriverCgo

// NewDriver returns the driver registered under name
func NewDriver(name string) (Driver, error) {
	switch name {
	case "", DriverCgo, "sqlite3":
		return cgoDriver{}, nil
	case DriverPure, "sqlite", "modernc":
		return pureDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", name)
	}
}

// cgoDriver uses mattn/go-sqlite3
type cgoDriver struct{}

func (cgoDriver) Name() string { return DriverCgo }

func (cgoDriver) Open(ctx context.Context, path string) (*sql.DB, error) {
	// WAL lets the CLI read while the TUI writes
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", path)
	return openPool(ctx, "sqlite3", dsn)
}

// pureDriver uses modernc.org/sqlite and needs no cgo toolchain
type pureDriver struct{}

func (pureDriver) Name() string { return DriverPure }

func (pureDriver) Open(ctx context.Context, path string) (*sql.DB, error) {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	dsn := "file:" + path + "?" + q.Encode()
	return openPool(ctx, "sqlite", dsn)
}

func openPool(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return sqlDB, nil
}
