// ABOUTME: Schema creation and ordered additive migrations for the notebook database
// ABOUTME: Upgrades legacy notes tables and old table names without dropping any rows

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		position INTEGER NOT NULL,
		name     TEXT PRIMARY KEY,
		content  TEXT NOT NULL,
		filepath TEXT
	);

	CREATE TABLE IF NOT EXISTS notes (
		position   INTEGER NOT NULL,
		tab_name   TEXT NOT NULL,
		text       TEXT NOT NULL,
		done       INTEGER NOT NULL,
		pinned     INTEGER NOT NULL,
		date       TEXT NOT NULL,
		color      TEXT NOT NULL,
		time_start TEXT,
		time_end   TEXT
	);

	CREATE TABLE IF NOT EXISTS note_tabs (
		position INTEGER NOT NULL,
		name     TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL
	);
`

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Migration is one additive schema step. Apply must be idempotent: it is
// expected to inspect the schema and do nothing when the change is present.
type Migration struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, tx *sql.Tx, s *SQLiteStore) error
}

// Migrations returns the ordered list of schema steps.
func Migrations() []Migration {
	return []Migration{
		{Version: 1, Name: "notes_tab_name", Apply: migrateNotesTabName},
		{Version: 2, Name: "notes_time_start", Apply: addNullableColumn("notes", "time_start")},
		{Version: 3, Name: "notes_time_end", Apply: addNullableColumn("notes", "time_end")},
		{Version: 4, Name: "legacy_tables", Apply: migrateLegacyTables},
		{Version: 5, Name: "notes_tab_position_index", Apply: createNotesIndex},
	}
}

// EnsureSchema creates the tables if they don't exist and applies every
// migration that has not been recorded yet.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range Migrations() {
		if applied[m.Version] {
			continue
		}
		if err := s.ApplyMigration(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMigration runs a single step in its own transaction and records it.
func (s *SQLiteStore) ApplyMigration(ctx context.Context, m Migration) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.Apply(ctx, tx, s); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.Version, m.Name, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("recording migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
	}

	s.logger.Debug("applied migration", "version", m.Version, "name", m.Name)
	return nil
}

func (s *SQLiteStore) appliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Columns returns the column names of table.
func (s *SQLiteStore) Columns(ctx context.Context, table string) (map[string]bool, error) {
	return columns(ctx, s.db, table)
}

// columns only accepts the package's own table names; they are inlined
// because pragma_table_info is not parameterized here.
func columns(ctx context.Context, q querier, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func tableExists(ctx context.Context, q querier, table string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return n > 0, nil
}

// migrateNotesTabName adds tab_name to notes tables created before note
// groups existed and assigns every existing note to the default group.
func migrateNotesTabName(ctx context.Context, tx *sql.Tx, s *SQLiteStore) error {
	cols, err := columns(ctx, tx, "notes")
	if err != nil {
		return err
	}
	if !cols["tab_name"] {
		if _, err := tx.ExecContext(ctx, `ALTER TABLE notes ADD COLUMN tab_name TEXT`); err != nil {
			return fmt.Errorf("adding tab_name column to notes: %w", err)
		}
		s.logger.Info("applied migration", "column", "tab_name", "table", "notes")
	}

	res, err := tx.ExecContext(ctx, `UPDATE notes SET tab_name = ? WHERE tab_name IS NULL`, s.defaultTabName)
	if err != nil {
		return fmt.Errorf("backfilling notes.tab_name: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info("assigned legacy notes to default group", "count", n, "group", s.defaultTabName)
	}
	return nil
}

// addNullableColumn returns a step adding a nullable TEXT column with no backfill.
func addNullableColumn(table, column string) func(context.Context, *sql.Tx, *SQLiteStore) error {
	return func(ctx context.Context, tx *sql.Tx, s *SQLiteStore) error {
		cols, err := columns(ctx, tx, table)
		if err != nil {
			return err
		}
		if cols[column] {
			return nil
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s TEXT`, table, column)); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", column, table, err)
		}
		s.logger.Info("applied migration", "column", column, "table", table)
		return nil
	}
}

// migrateLegacyTables copies rows from the table names used by earlier
// releases (tabs, app_settings). The old tables are left in place.
func migrateLegacyTables(ctx context.Context, tx *sql.Tx, s *SQLiteStore) error {
	ok, err := tableExists(ctx, tx, "tabs")
	if err != nil {
		return err
	}
	if ok {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO documents (position, name, content, filepath)
			SELECT position, name, COALESCE(content, ''), filepath FROM tabs
		`)
		if err != nil {
			return fmt.Errorf("copying legacy tabs: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.logger.Info("imported legacy documents", "count", n)
		}
	}

	ok, err = tableExists(ctx, tx, "app_settings")
	if err != nil {
		return err
	}
	if ok {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO settings (key, value)
			SELECT key, COALESCE(value, '') FROM app_settings
		`); err != nil {
			return fmt.Errorf("copying legacy settings: %w", err)
		}
	}
	return nil
}

// createNotesIndex needs tab_name, so it runs after the column migrations.
func createNotesIndex(ctx context.Context, tx *sql.Tx, s *SQLiteStore) error {
	if _, err := tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_notes_tab_position ON notes(tab_name, position)`); err != nil {
		return fmt.Errorf("creating notes index: %w", err)
	}
	return nil
}
