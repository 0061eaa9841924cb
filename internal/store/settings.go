// ABOUTME: Settings table persistence for the SQLite store
// ABOUTME: Upserts known keys and applies stored values onto typed defaults

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/2389/notebook/internal/settings"
)

// SaveSettings upserts every known key. Rows for keys this build does not
// know are left untouched.
func (s *SQLiteStore) SaveSettings(ctx context.Context, st *settings.Settings) error {
	encoded := st.Encode()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, key := range st.Keys() {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, key, encoded[key])
			if err != nil {
				return fmt.Errorf("upserting setting %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	s.logger.Debug("saved settings", "count", len(encoded))
	return nil
}

// LoadSettings overwrites defaults in st with stored values for known keys.
func (s *SQLiteStore) LoadSettings(ctx context.Context, st *settings.Settings) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scanning setting: %w", err)
		}
		if !st.Apply(key, value.String) {
			s.logger.Debug("skipping unknown setting", "key", key)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating settings: %w", err)
	}
	return nil
}
