// Package storage provides the data persistence layer for squeegee.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/squeegee/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store implements service.Storage on top of sqlx. Queries are written with
// ? placeholders and rebound for the active driver.
type Store struct {
	db       *sqlx.DB
	validate *validator.Validate
}

var _ service.Storage = (*Store)(nil)

// NormalizeDriver maps user-facing driver names onto registered drivers.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the database described by driver and dsn.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if err := validateString(dsn, "dsn"); err != nil {
		return nil, err
	}
	driver, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't benefit from multiple connections, and an in-memory
		// database only exists on the connection that created it.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	return NewWithDB(db), nil
}

// OpenSQLite opens a local SQLite database file, or ":memory:".
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	return Open(ctx, DriverSQLite, path)
}

// NewWithDB wraps an existing connection. The driver name of db selects the
// placeholder style.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db, validate: newValidator()}
}

func sqliteDSN(path string) (string, error) {
	if strings.Contains(path, "?") {
		return path, nil
	}
	if path == ":memory:" {
		return path + "?_foreign_keys=on", nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", nil
}

// DriverName reports the active driver.
func (s *Store) DriverName() string {
	return s.db.DriverName()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}
