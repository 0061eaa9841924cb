// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Opens the notebook database file and provides shared transaction helpers

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db             *sql.DB
	logger         *slog.Logger
	defaultTabName string
}

// Option configures a SQLiteStore
type Option func(*SQLiteStore)

// WithLogger sets the logger used by the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger.With("component", "store")
		}
	}
}

// WithDefaultTabName sets the group assigned to notes from databases
// that predate note groups.
func WithDefaultTabName(name string) Option {
	return func(s *SQLiteStore) {
		if name != "" {
			s.defaultTabName = name
		}
	}
}

// NewSQLiteStore opens the SQLite database at path.
// Parent directories are created if needed. The schema is not touched until
// EnsureSchema is called, so a seed database can be copied into place first.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		logger:         slog.Default().With("component", "store"),
		defaultTabName: DefaultTabName,
	}
	for _, opt := range opts {
		opt(s)
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: the notebook is single-threaded and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s.db = db
	s.logger.Debug("SQLite store opened", "path", path)
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Debug("closing SQLite store")
	return s.db.Close()
}

// inTx runs fn inside a transaction, committing on success and rolling back
// on any error so that no partial table replacement is ever visible.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
