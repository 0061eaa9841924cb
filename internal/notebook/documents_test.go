// ABOUTME: Tests for document creation, naming, closing and export
// ABOUTME: Checks name uniqueness, the never-empty invariant and export failure handling

package notebook

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/notebook/internal/config"
	"github.com/2389/notebook/internal/store"
)

func docNames(nb *Notebook) []string {
	var names []string
	for _, d := range nb.Documents() {
		names = append(names, d.Name)
	}
	return names
}

func TestNewDocument_Naming(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()

	for _, suggested := range []string{"Plans", "  Plans ", "Plans", ""} {
		_, err := h.nb.NewDocument(ctx, suggested)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Document 1", "Plans", "Plans (2)", "Plans (3)", "Document 2"}, docNames(h.nb))
	assert.Equal(t, "Document 2", h.nb.ActiveDocument())
	assert.Equal(t, 4, h.store.SaveCount("documents"))
}

func TestNewDocument_LowestFreeSuffix(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.nb.NewDocument(ctx, "A")
		require.NoError(t, err)
	}
	require.NoError(t, h.nb.CloseDocument(ctx, "A (2)"))

	name, err := h.nb.NewDocument(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A (2)", name)
}

func TestNewDocument_CounterCollidesWithLoadedName(t *testing.T) {
	m := store.NewMockStore()
	m.PutDocuments(store.Document{Name: "Document 1"})
	h := openMock(t, m, config.Config{})

	name, err := h.nb.NewDocument(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Document 1 (2)", name)
}

func TestNewDocument_CustomPrefix(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{
		Documents: config.DocumentsConfig{DefaultNamePrefix: "Page"},
	})
	assert.Equal(t, []string{"Page 1"}, docNames(h.nb))
}

func TestNamesStayUnique(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()

	ops := []func() error{
		func() error { _, err := h.nb.NewDocument(ctx, "x"); return err },
		func() error { _, err := h.nb.NewDocument(ctx, "x (2)"); return err },
		func() error { _, err := h.nb.NewDocument(ctx, "x"); return err },
		func() error { _, err := h.nb.RenameDocument(ctx, "Document 1", "x"); return err },
		func() error { _, err := h.nb.NewDocument(ctx, ""); return err },
		func() error { _, err := h.nb.RenameDocument(ctx, "x", "x (3)"); return err },
	}
	for i, op := range ops {
		require.NoError(t, op(), "op %d", i)
		seen := make(map[string]bool)
		for _, n := range docNames(h.nb) {
			require.False(t, seen[n], "duplicate %q after op %d", n, i)
			seen[n] = true
		}
	}
}

func TestDocumentText(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})

	require.NoError(t, h.nb.SetDocumentText("Document 1", "hello"))
	text, err := h.nb.DocumentText("Document 1")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = h.nb.DocumentText("missing")
	assert.ErrorIs(t, err, ErrUnknownDocument)
	assert.ErrorIs(t, h.nb.SetDocumentText("missing", "x"), ErrUnknownDocument)
	assert.ErrorIs(t, h.nb.SelectDocument("missing"), ErrUnknownDocument)
}

func TestRenameDocument(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()

	_, err := h.nb.NewDocument(ctx, "Other")
	require.NoError(t, err)
	require.NoError(t, h.nb.SelectDocument("Document 1"))

	name, err := h.nb.RenameDocument(ctx, "Document 1", "Other")
	require.NoError(t, err)
	assert.Equal(t, "Other (2)", name)
	assert.Equal(t, "Other (2)", h.nb.ActiveDocument())

	name, err = h.nb.RenameDocument(ctx, "Other (2)", "Other (2)")
	require.NoError(t, err)
	assert.Equal(t, "Other (2)", name, "renaming to itself is not a collision")

	_, err = h.nb.RenameDocument(ctx, "nope", "x")
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestCloseDocument_LastLeavesFreshDocument(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()

	require.NoError(t, h.nb.SetDocumentText("Document 1", "gone"))
	_, err := h.nb.RenameDocument(ctx, "Document 1", "Only")
	require.NoError(t, err)

	require.NoError(t, h.nb.CloseDocument(ctx, "Only"))

	docs := h.nb.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, Document{Name: "Document 1"}, docs[0])
	assert.Equal(t, "Document 1", h.nb.ActiveDocument())

	stored, err := h.store.LoadDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Document 1", stored[0].Name)
}

func TestCloseDocument_ActiveMovesToNeighbour(t *testing.T) {
	m := store.NewMockStore()
	m.PutDocuments(store.Document{Name: "A"}, store.Document{Position: 1, Name: "B"}, store.Document{Position: 2, Name: "C"})
	h := openMock(t, m, config.Config{})
	ctx := context.Background()

	require.NoError(t, h.nb.SelectDocument("B"))
	require.NoError(t, h.nb.CloseDocument(ctx, "B"))
	assert.Equal(t, "A", h.nb.ActiveDocument(), "previous neighbour")

	require.NoError(t, h.nb.CloseDocument(ctx, "A"))
	assert.Equal(t, "C", h.nb.ActiveDocument(), "next when there is no previous")

	assert.ErrorIs(t, h.nb.CloseDocument(ctx, "A"), ErrUnknownDocument)
}

func TestDocumentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notebook.sqlite3")
	ctx := context.Background()

	nb := openSQLite(t, path)
	_, err := nb.NewDocument(ctx, "Ideas")
	require.NoError(t, err)
	require.NoError(t, nb.SetDocumentText("Ideas", "line one\nline two"))
	require.NoError(t, nb.SetDocumentText("Document 1", "привет"))
	require.NoError(t, nb.SaveEverything(ctx))
	want := nb.Documents()

	reopened := openSQLite(t, path)
	if diff := cmp.Diff(want, reopened.Documents()); diff != "" {
		t.Errorf("documents after reopen (-want +got):\n%s", diff)
	}
}

func TestExportDocument(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()
	require.NoError(t, h.nb.SetDocumentText("Document 1", "exported text ✓"))

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, h.nb.ExportDocument(ctx, "Document 1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "exported text ✓", string(data))

	assert.Equal(t, path, h.nb.Documents()[0].FilePath)
	stored, err := h.store.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, path, stored[0].FilePath)
	assert.Equal(t, 1, h.store.SaveCount("notes"))
}

func TestExportDocument_FailureIsSurfaced(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "missing-dir", "out.txt")
	err := h.nb.ExportDocument(ctx, "Document 1", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExport))

	assert.Empty(t, h.nb.Documents()[0].FilePath, "failed export is not remembered")
	assert.Zero(t, h.store.SaveCount("documents"))

	assert.ErrorIs(t, h.nb.ExportDocument(ctx, "nope", path), ErrUnknownDocument)
}

func TestExportDocumentHTML(t *testing.T) {
	h := openMock(t, store.NewMockStore(), config.Config{})
	ctx := context.Background()
	require.NoError(t, h.nb.SetDocumentText("Document 1", "# Title\n\nsome *text*"))

	path := filepath.Join(t.TempDir(), "out.html")
	require.NoError(t, h.nb.ExportDocumentHTML(ctx, "Document 1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.Contains(html, "<h1>Title</h1>"), html)
	assert.Contains(t, html, "<em>text</em>")
	assert.Empty(t, h.nb.Documents()[0].FilePath)

	err = h.nb.ExportDocumentHTML(ctx, "Document 1", filepath.Join(t.TempDir(), "no", "such", "dir.html"))
	assert.ErrorIs(t, err, ErrExport)
}
