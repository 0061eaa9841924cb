// ABOUTME: Store interfaces and row types for notebook persistence
// ABOUTME: Defines Document, NoteTab and NoteRow plus the per-table store contracts

package store

import (
	"context"
	"errors"

	"github.com/2389/notebook/internal/settings"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// DefaultTabName is the note group assigned to notes written before groups existed
const DefaultTabName = "Notes"

// Document is one row of the documents table
type Document struct {
	Position int
	Name     string
	Content  string
	FilePath string // empty when the document has no external file
}

// NoteTab is one row of the note_tabs table
type NoteTab struct {
	Position int
	Name     string
}

// NoteRow is one row of the notes table
type NoteRow struct {
	Position  int // within its tab
	TabName   string
	Text      string
	Done      bool
	Pinned    bool
	Date      string
	Color     string
	TimeStart string // empty when unset
	TimeEnd   string // empty when unset
}

// DocumentStore persists the ordered document collection.
// SaveDocuments replaces the whole table; callers always pass the complete set.
type DocumentStore interface {
	SaveDocuments(ctx context.Context, docs []Document) error
	LoadDocuments(ctx context.Context) ([]Document, error)
}

// NoteStore persists note groups and their notes.
// SaveNotes replaces both tables; positions are recomputed from slice order.
type NoteStore interface {
	SaveNotes(ctx context.Context, tabs []string, notesByTab map[string][]NoteRow) error
	LoadNotes(ctx context.Context) ([]NoteTab, []NoteRow, error)
}

// SettingsStore persists the preference bag.
// SaveSettings upserts known keys and never deletes rows it does not know.
type SettingsStore interface {
	SaveSettings(ctx context.Context, s *settings.Settings) error
	LoadSettings(ctx context.Context, s *settings.Settings) error
}

// Store is everything the notebook needs from persistence
type Store interface {
	// EnsureSchema creates missing tables and applies pending migrations.
	// It is idempotent and safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	DocumentStore
	NoteStore
	SettingsStore

	// Close releases any resources held by the store
	Close() error
}
