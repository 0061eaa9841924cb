// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite and to inject save/load failures

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/2389/notebook/internal/settings"
)

// MockStore is an in-memory Store implementation for testing.
// It mirrors the SQLite store's ordering and replace semantics.
type MockStore struct {
	mu        sync.RWMutex
	documents []Document
	noteTabs  []NoteTab
	notes     []NoteRow
	settings  map[string]string // raw stored values, keyed by setting key
	ensured   int
	saves     map[string]int // keyed by "documents", "notes", "settings"

	// Injected failures, returned by the matching method when non-nil
	EnsureErr        error
	SaveDocumentsErr error
	SaveNotesErr     error
	SaveSettingsErr  error
	LoadErr          error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		settings: make(map[string]string),
		saves:    make(map[string]int),
	}
}

// EnsureSchema records the call.
func (m *MockStore) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EnsureErr != nil {
		return m.EnsureErr
	}
	m.ensured++
	return nil
}

// SaveDocuments replaces the stored documents, recomputing positions.
func (m *MockStore) SaveDocuments(ctx context.Context, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveDocumentsErr != nil {
		return m.SaveDocumentsErr
	}

	seen := make(map[string]bool, len(docs))
	out := make([]Document, 0, len(docs))
	for i, d := range docs {
		if seen[d.Name] {
			return errDuplicate("document", d.Name)
		}
		seen[d.Name] = true
		d.Position = i
		out = append(out, d)
	}
	m.documents = out
	m.saves["documents"]++
	return nil
}

// LoadDocuments returns a copy of the stored documents ordered by position.
func (m *MockStore) LoadDocuments(ctx context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if len(m.documents) == 0 {
		return nil, nil
	}
	out := make([]Document, len(m.documents))
	copy(out, m.documents)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// SaveNotes replaces the stored groups and notes, recomputing positions.
func (m *MockStore) SaveNotes(ctx context.Context, tabs []string, notesByTab map[string][]NoteRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveNotesErr != nil {
		return m.SaveNotesErr
	}

	seen := make(map[string]bool, len(tabs))
	var newTabs []NoteTab
	var newNotes []NoteRow
	for pos, name := range tabs {
		if seen[name] {
			return errDuplicate("note tab", name)
		}
		seen[name] = true
		newTabs = append(newTabs, NoteTab{Position: pos, Name: name})
		for i, n := range notesByTab[name] {
			n.Position = i
			n.TabName = name
			newNotes = append(newNotes, n)
		}
	}
	m.noteTabs = newTabs
	m.notes = newNotes
	m.saves["notes"]++
	return nil
}

// LoadNotes returns groups by position and notes by group name, then position.
func (m *MockStore) LoadNotes(ctx context.Context) ([]NoteTab, []NoteRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LoadErr != nil {
		return nil, nil, m.LoadErr
	}

	var tabs []NoteTab
	if len(m.noteTabs) > 0 {
		tabs = make([]NoteTab, len(m.noteTabs))
		copy(tabs, m.noteTabs)
		sort.SliceStable(tabs, func(i, j int) bool { return tabs[i].Position < tabs[j].Position })
	}

	var notes []NoteRow
	if len(m.notes) > 0 {
		notes = make([]NoteRow, len(m.notes))
		copy(notes, m.notes)
		sort.SliceStable(notes, func(i, j int) bool {
			if notes[i].TabName != notes[j].TabName {
				return notes[i].TabName < notes[j].TabName
			}
			return notes[i].Position < notes[j].Position
		})
	}
	return tabs, notes, nil
}

// SaveSettings upserts every known key.
func (m *MockStore) SaveSettings(ctx context.Context, st *settings.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveSettingsErr != nil {
		return m.SaveSettingsErr
	}
	for k, v := range st.Encode() {
		m.settings[k] = v
	}
	m.saves["settings"]++
	return nil
}

// LoadSettings applies stored values onto st.
func (m *MockStore) LoadSettings(ctx context.Context, st *settings.Settings) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.LoadErr != nil {
		return m.LoadErr
	}
	for k, v := range m.settings {
		st.Apply(k, v)
	}
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// PutDocuments stores rows verbatim, bypassing position recomputation.
func (m *MockStore) PutDocuments(docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, docs...)
}

// PutNotes stores groups and notes verbatim. Notes may reference groups
// that are absent, which simulates a damaged database.
func (m *MockStore) PutNotes(tabs []NoteTab, notes []NoteRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noteTabs = append(m.noteTabs, tabs...)
	m.notes = append(m.notes, notes...)
}

// PutSetting stores a raw settings row, including keys no build knows.
func (m *MockStore) PutSetting(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
}

// RawSetting returns a stored settings row.
func (m *MockStore) RawSetting(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.settings[key]
	return v, ok
}

// SaveCount reports how many successful saves hit a table
// ("documents", "notes" or "settings").
func (m *MockStore) SaveCount(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves[table]
}

// EnsureCount reports how many times EnsureSchema succeeded.
func (m *MockStore) EnsureCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ensured
}

type duplicateError struct {
	kind, name string
}

func (e *duplicateError) Error() string {
	return "UNIQUE constraint failed: duplicate " + e.kind + " " + e.name
}

func errDuplicate(kind, name string) error {
	return &duplicateError{kind: kind, name: name}
}
