// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers opening, document and settings persistence, and transactional replace

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/notebook/internal/settings"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestDocuments_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := []Document{
		{Name: "Document 1", Content: "hello\nworld"},
		{Name: "Shopping", Content: "", FilePath: "/home/u/shopping.txt"},
		{Name: "Ideas", Content: "ünïcödé ✓"},
	}
	require.NoError(t, store.SaveDocuments(ctx, in))

	got, err := store.LoadDocuments(ctx)
	require.NoError(t, err)

	want := []Document{
		{Position: 0, Name: "Document 1", Content: "hello\nworld"},
		{Position: 1, Name: "Shopping", FilePath: "/home/u/shopping.txt"},
		{Position: 2, Name: "Ideas", Content: "ünïcödé ✓"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadDocuments mismatch (-want +got):\n%s", diff)
	}
}

func TestDocuments_SaveRecomputesPositions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocuments(ctx, []Document{
		{Position: 7, Name: "b"},
		{Position: 3, Name: "a"},
	}))

	got, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, 0, got[0].Position)
	assert.Equal(t, "a", got[1].Name)
	assert.Equal(t, 1, got[1].Position)
}

func TestDocuments_SaveReplacesWholeTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocuments(ctx, []Document{{Name: "one"}, {Name: "two"}, {Name: "three"}}))
	require.NoError(t, store.SaveDocuments(ctx, []Document{{Name: "two"}}))

	got, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "two", got[0].Name)
	assert.Equal(t, 0, got[0].Position)
}

func TestDocuments_FailedSaveLeavesTableIntact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocuments(ctx, []Document{{Name: "keep", Content: "x"}}))

	// duplicate primary key aborts the transaction after the DELETE ran
	err := store.SaveDocuments(ctx, []Document{{Name: "dup"}, {Name: "dup"}})
	require.Error(t, err)

	got, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Name)
	assert.Equal(t, "x", got[0].Content)
}

func TestDocuments_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.LoadDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSettings_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	st := settings.New()
	require.NoError(t, st.Set(settings.NotesFontSize, 16))
	require.NoError(t, st.Set(settings.AlwaysOnTop, true))
	require.NoError(t, store.SaveSettings(ctx, st))

	loaded := settings.New()
	require.NoError(t, store.LoadSettings(ctx, loaded))

	assert.Equal(t, 16, loaded.Int(settings.NotesFontSize))
	assert.True(t, loaded.Bool(settings.AlwaysOnTop))
	assert.Equal(t, 14, loaded.Int(settings.EditorFontSize))
	assert.Equal(t, "dark", loaded.String(settings.Theme))
}

func TestSettings_PreservesUnknownKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('window_width', '900')`)
	require.NoError(t, err)

	st := settings.New()
	require.NoError(t, store.LoadSettings(ctx, st))
	require.NoError(t, st.Set(settings.Theme, "light"))
	require.NoError(t, store.SaveSettings(ctx, st))

	var value string
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'window_width'`).Scan(&value))
	assert.Equal(t, "900", value)

	var theme string
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'theme'`).Scan(&theme))
	assert.Equal(t, "light", theme)
}

func TestSettings_LoadCoercion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES
			('notes_font_size', 'big'),
			('editor_font_size', '11'),
			('always_on_top', 'YES'),
			('show_save_status', 'nope')
	`)
	require.NoError(t, err)

	st := settings.New()
	require.NoError(t, store.LoadSettings(ctx, st))

	assert.Equal(t, 14, st.Int(settings.NotesFontSize), "unparsable int keeps default")
	assert.Equal(t, 11, st.Int(settings.EditorFontSize))
	assert.True(t, st.Bool(settings.AlwaysOnTop))
	assert.False(t, st.Bool(settings.ShowSaveStatus))
}

func TestInMemoryStore(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.SaveDocuments(ctx, []Document{{Name: "mem"}}))

	got, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mem", got[0].Name)
}

// newTestStore creates a file-backed store with the schema in place.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	return store
}
