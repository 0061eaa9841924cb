// ABOUTME: Document operations: create, edit, rename, close and export
// ABOUTME: Each structural change rewrites the documents table in full

package notebook

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/yuin/goldmark"

	"github.com/2389/notebook/internal/status"
)

// Document is one free-text tab.
type Document struct {
	Name     string
	Content  string
	FilePath string // last successful export target, empty if none
}

// Documents returns copies of the documents in order.
func (nb *Notebook) Documents() []Document {
	out := make([]Document, len(nb.docs))
	for i, d := range nb.docs {
		out[i] = *d
	}
	return out
}

// ActiveDocument returns the name of the selected document.
func (nb *Notebook) ActiveDocument() string { return nb.activeDoc }

// SelectDocument makes name the active document.
func (nb *Notebook) SelectDocument(name string) error {
	if _, err := nb.document(name); err != nil {
		return err
	}
	nb.activeDoc = name
	return nil
}

// NewDocument appends an empty document and makes it active. A blank
// suggestion gets the next "<prefix> N" name; a taken name gets a suffix.
func (nb *Notebook) NewDocument(ctx context.Context, suggested string) (string, error) {
	name := strings.TrimSpace(suggested)
	if name == "" {
		name = nb.defaultDocumentName()
	}
	name = uniqueName(name, nb.hasDocument)

	nb.docs = append(nb.docs, &Document{Name: name})
	nb.activeDoc = name
	nb.logger.Debug("document created", "name", name)

	return name, nb.saveDocuments(ctx)
}

// DocumentText returns the content of name.
func (nb *Notebook) DocumentText(name string) (string, error) {
	d, err := nb.document(name)
	if err != nil {
		return "", err
	}
	return d.Content, nil
}

// SetDocumentText replaces the content in memory. The next save persists it.
func (nb *Notebook) SetDocumentText(name, text string) error {
	d, err := nb.document(name)
	if err != nil {
		return err
	}
	d.Content = text
	return nil
}

// RenameDocument renames old, resolving collisions against the other
// documents, and returns the name actually used.
func (nb *Notebook) RenameDocument(ctx context.Context, old, name string) (string, error) {
	d, err := nb.document(old)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == old {
		return old, nil
	}
	name = uniqueName(name, func(n string) bool {
		return n != old && nb.hasDocument(n)
	})

	d.Name = name
	if nb.activeDoc == old {
		nb.activeDoc = name
	}
	return name, nb.saveDocuments(ctx)
}

// CloseDocument removes name. Closing the last document leaves a fresh empty
// "<prefix> 1" in its place.
func (nb *Notebook) CloseDocument(ctx context.Context, name string) error {
	idx := nb.documentIndex(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}

	nb.docs = slices.Delete(nb.docs, idx, idx+1)

	switch {
	case len(nb.docs) == 0:
		first := nb.cfg.Documents.DefaultNamePrefix + " 1"
		nb.docs = []*Document{{Name: first}}
		nb.activeDoc = first
	case nb.activeDoc == name:
		nb.activeDoc = nb.docs[max(idx-1, 0)].Name
	}

	nb.logger.Debug("document closed", "name", name, "active", nb.activeDoc)
	return nb.saveDocuments(ctx)
}

// ExportDocument writes the document text to path as UTF-8. On success the
// path is remembered and the documents table is saved. On failure the error
// wraps ErrExport and nothing is remembered.
func (nb *Notebook) ExportDocument(ctx context.Context, name, path string) error {
	d, err := nb.document(name)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, strings.NewReader(d.Content)); err != nil {
		nb.logger.Error("export failed", "document", name, "path", path, "error", err)
		return fmt.Errorf("%w: writing %s: %w", ErrExport, path, err)
	}

	d.FilePath = path
	nb.logger.Info("document exported", "document", name, "path", path)
	if err := nb.saveDocuments(ctx); err != nil {
		return err
	}
	if err := nb.saveNotes(ctx); err != nil {
		return err
	}
	nb.flash(status.MsgSaved)
	return nil
}

// ExportDocumentHTML renders the document text as Markdown into an HTML file.
// The remembered export path is left unchanged.
func (nb *Notebook) ExportDocumentHTML(ctx context.Context, name, path string) error {
	d, err := nb.document(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(d.Content), &buf); err != nil {
		return fmt.Errorf("%w: rendering %s: %w", ErrExport, name, err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		nb.logger.Error("html export failed", "document", name, "path", path, "error", err)
		return fmt.Errorf("%w: writing %s: %w", ErrExport, path, err)
	}

	nb.logger.Info("document exported as html", "document", name, "path", path)
	return nil
}

func (nb *Notebook) document(name string) (*Document, error) {
	idx := nb.documentIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}
	return nb.docs[idx], nil
}

func (nb *Notebook) documentIndex(name string) int {
	return slices.IndexFunc(nb.docs, func(d *Document) bool { return d.Name == name })
}

func (nb *Notebook) hasDocument(name string) bool {
	return nb.documentIndex(name) >= 0
}

// defaultDocumentName consumes the running counter.
func (nb *Notebook) defaultDocumentName() string {
	name := fmt.Sprintf("%s %d", nb.cfg.Documents.DefaultNamePrefix, nb.docCounter)
	nb.docCounter++
	return name
}
