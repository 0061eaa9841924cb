// ABOUTME: Note group and note persistence for the SQLite store
// ABOUTME: Replaces both tables on save and reads legacy column layouts on load

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveNotes replaces note_tabs and notes. Tabs get positions from their
// order in tabs; notes get positions from their order within their tab.
// Notes keyed by a tab that is not in tabs are not written.
func (s *SQLiteStore) SaveNotes(ctx context.Context, tabs []string, notesByTab map[string][]NoteRow) error {
	var total int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
			return fmt.Errorf("clearing notes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM note_tabs`); err != nil {
			return fmt.Errorf("clearing note tabs: %w", err)
		}

		for pos, name := range tabs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO note_tabs (position, name) VALUES (?, ?)`, pos, name); err != nil {
				return fmt.Errorf("inserting note tab %q: %w", name, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO notes (position, tab_name, text, done, pinned, date, color, time_start, time_end)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing note insert: %w", err)
		}
		defer stmt.Close()

		for _, tab := range tabs {
			for pos, n := range notesByTab[tab] {
				_, err := stmt.ExecContext(ctx,
					pos, tab, n.Text,
					boolToInt(n.Done), boolToInt(n.Pinned),
					n.Date, n.Color, nullString(n.TimeStart), nullString(n.TimeEnd),
				)
				if err != nil {
					return fmt.Errorf("inserting note in %q: %w", tab, err)
				}
				total++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}

	s.logger.Debug("saved notes", "tabs", len(tabs), "notes", total)
	return nil
}

// LoadNotes returns the stored note groups ordered by position and the notes
// ordered by group name, then position. Databases without tab_name load every
// note into the default group; missing time columns load as empty strings.
func (s *SQLiteStore) LoadNotes(ctx context.Context) ([]NoteTab, []NoteRow, error) {
	cols, err := columns(ctx, s.db, "notes")
	if err != nil {
		return nil, nil, err
	}

	tabs, err := s.loadNoteTabs(ctx)
	if err != nil {
		return nil, nil, err
	}

	tabExpr := "COALESCE(tab_name, ?)"
	order := "tab_name ASC, position ASC"
	if !cols["tab_name"] {
		tabExpr = "?"
		order = "position ASC"
	}
	startExpr, endExpr := "''", "''"
	if cols["time_start"] {
		startExpr = "COALESCE(time_start, '')"
	}
	if cols["time_end"] {
		endExpr = "COALESCE(time_end, '')"
	}

	query := fmt.Sprintf(`
		SELECT position, %s, text, done, pinned, COALESCE(date, ''), COALESCE(color, ''), %s, %s
		FROM notes
		ORDER BY %s
	`, tabExpr, startExpr, endExpr, order)

	rows, err := s.db.QueryContext(ctx, query, s.defaultTabName)
	if err != nil {
		return nil, nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []NoteRow
	for rows.Next() {
		var n NoteRow
		var done, pinned int
		if err := rows.Scan(&n.Position, &n.TabName, &n.Text, &done, &pinned,
			&n.Date, &n.Color, &n.TimeStart, &n.TimeEnd); err != nil {
			return nil, nil, fmt.Errorf("scanning note: %w", err)
		}
		n.Done = done != 0
		n.Pinned = pinned != 0
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating notes: %w", err)
	}

	return tabs, notes, nil
}

func (s *SQLiteStore) loadNoteTabs(ctx context.Context) ([]NoteTab, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT position, name FROM note_tabs ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying note tabs: %w", err)
	}
	defer rows.Close()

	var tabs []NoteTab
	for rows.Next() {
		var t NoteTab
		if err := rows.Scan(&t.Position, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning note tab: %w", err)
		}
		tabs = append(tabs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note tabs: %w", err)
	}
	return tabs, nil
}
