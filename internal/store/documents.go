// ABOUTME: Document table persistence for the SQLite store
// ABOUTME: Whole-table replace on save, position-ordered load

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveDocuments replaces the documents table with docs. Positions are
// recomputed from slice order; the Position field of the input is ignored.
func (s *SQLiteStore) SaveDocuments(ctx context.Context, docs []Document) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
			return fmt.Errorf("clearing documents: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO documents (position, name, content, filepath) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing document insert: %w", err)
		}
		defer stmt.Close()

		for i, d := range docs {
			if _, err := stmt.ExecContext(ctx, i, d.Name, d.Content, nullString(d.FilePath)); err != nil {
				return fmt.Errorf("inserting document %q: %w", d.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving documents: %w", err)
	}

	s.logger.Debug("saved documents", "count", len(docs))
	return nil
}

// LoadDocuments returns every stored document ordered by position.
func (s *SQLiteStore) LoadDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, name, content, filepath FROM documents ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var content, path sql.NullString
		if err := rows.Scan(&d.Position, &d.Name, &content, &path); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Content = content.String
		d.FilePath = path.String
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}
