// ABOUTME: Notebook application state and the startup load orchestration
// ABOUTME: Rebuilds documents, note tabs and settings from the store in a fixed order

package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2389/notebook/internal/config"
	"github.com/2389/notebook/internal/settings"
	"github.com/2389/notebook/internal/status"
	"github.com/2389/notebook/internal/store"
)

var (
	ErrUnknownDocument = errors.New("unknown document")
	ErrUnknownNote     = errors.New("unknown note")
	ErrUnknownNoteTab  = errors.New("unknown note tab")
	ErrExport          = errors.New("export failed")
)

// Renderer receives the display-ordered notes of the active tab after every
// note mutation.
type Renderer interface {
	RedrawNotes(tab string, notes []Note)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(tab string, notes []Note)

func (f RendererFunc) RedrawNotes(tab string, notes []Note) { f(tab, notes) }

type nopRenderer struct{}

func (nopRenderer) RedrawNotes(string, []Note) {}

// Options configures Open. Zero values fall back to defaults.
type Options struct {
	Config   config.Config
	Logger   *slog.Logger
	Renderer Renderer
	Clock    func() time.Time
	Status   *status.Flasher
}

// Notebook is the application state object.
type Notebook struct {
	store    store.Store
	cfg      config.Config
	logger   *slog.Logger
	renderer Renderer
	clock    func() time.Time
	status   *status.Flasher
	settings *settings.Settings

	docs       []*Document
	activeDoc  string
	docCounter int

	tabs      []*noteTab
	activeTab string
}

// Open loads the notebook from st: schema, then settings, then documents,
// then notes. Any load failure is returned; nothing is synthesized over it.
func Open(ctx context.Context, st store.Store, opts Options) (*Notebook, error) {
	nb := newNotebook(st, opts)

	if err := st.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	if err := st.LoadSettings(ctx, nb.settings); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := nb.loadDocuments(ctx); err != nil {
		return nil, err
	}
	if err := nb.loadNotes(ctx); err != nil {
		return nil, err
	}

	nb.logger.Debug("notebook loaded",
		"documents", len(nb.docs),
		"note_tabs", len(nb.tabs),
		"active_document", nb.activeDoc,
		"active_tab", nb.activeTab)

	nb.redraw()
	return nb, nil
}

func newNotebook(st store.Store, opts Options) *Notebook {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = nopRenderer{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	nb := &Notebook{
		store:      st,
		cfg:        withDefaults(opts.Config),
		logger:     logger.With("component", "notebook"),
		renderer:   renderer,
		clock:      clock,
		status:     opts.Status,
		settings:   settings.New(),
		docCounter: 1,
	}
	if nb.status != nil && nb.status.Enabled == nil {
		nb.status.Enabled = func() bool { return nb.settings.Bool(settings.ShowSaveStatus) }
	}
	return nb
}

// withDefaults fills the fields the notebook depends on.
func withDefaults(cfg config.Config) config.Config {
	def := config.Default()
	if cfg.Notes.MaxTextLength <= 0 {
		cfg.Notes.MaxTextLength = def.Notes.MaxTextLength
	}
	if cfg.Notes.DefaultTabName == "" {
		cfg.Notes.DefaultTabName = def.Notes.DefaultTabName
	}
	if cfg.Notes.DateLayout == "" {
		cfg.Notes.DateLayout = def.Notes.DateLayout
	}
	if cfg.Documents.DefaultNamePrefix == "" {
		cfg.Documents.DefaultNamePrefix = def.Documents.DefaultNamePrefix
	}
	if cfg.Status.Duration <= 0 {
		cfg.Status.Duration = def.Status.Duration
	}
	return cfg
}

func (nb *Notebook) loadDocuments(ctx context.Context) error {
	rows, err := nb.store.LoadDocuments(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	if len(rows) == 0 {
		name := nb.defaultDocumentName()
		nb.docs = []*Document{{Name: name}}
		nb.activeDoc = name
		nb.logger.Info("created initial document", "name", name)
		return nil
	}

	nb.docs = make([]*Document, 0, len(rows))
	for _, r := range rows {
		// rows come from a primary-keyed table, but a hand-edited file can still disagree
		name := uniqueName(r.Name, nb.hasDocument)
		nb.docs = append(nb.docs, &Document{Name: name, Content: r.Content, FilePath: r.FilePath})
	}
	nb.activeDoc = nb.docs[0].Name
	return nil
}

func (nb *Notebook) loadNotes(ctx context.Context) error {
	tabRows, noteRows, err := nb.store.LoadNotes(ctx)
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	nb.tabs = nil
	for _, t := range tabRows {
		if nb.tab(t.Name) == nil {
			nb.tabs = append(nb.tabs, &noteTab{name: t.Name})
		}
	}
	if len(nb.tabs) == 0 {
		nb.tabs = []*noteTab{{name: nb.cfg.Notes.DefaultTabName}}
	}

	for _, r := range noteRows {
		t := nb.tab(r.TabName)
		if t == nil {
			nb.logger.Warn("note references missing tab, recreating it", "tab", r.TabName)
			t = &noteTab{name: r.TabName}
			nb.tabs = append(nb.tabs, t)
		}
		t.notes = append(t.notes, noteFromRow(r))
	}

	nb.activeTab = nb.tabs[0].name
	return nil
}

// Settings returns the live settings bag.
func (nb *Notebook) Settings() *settings.Settings { return nb.settings }

// Setting returns the typed value for key.
func (nb *Notebook) Setting(key string) (any, bool) {
	return nb.settings.Get(key)
}

// SetSetting stores a typed value and persists the settings table.
func (nb *Notebook) SetSetting(ctx context.Context, key string, value any) error {
	if err := nb.settings.Set(key, value); err != nil {
		return err
	}
	return nb.saveSettings(ctx)
}

// SaveEverything writes documents and notes.
func (nb *Notebook) SaveEverything(ctx context.Context) error {
	if err := nb.saveDocuments(ctx); err != nil {
		return err
	}
	if err := nb.saveNotes(ctx); err != nil {
		return err
	}
	nb.flash(status.MsgSaved)
	return nil
}

// Close is the normal shutdown path: documents, notes and settings are
// saved. The first failure is returned after every save has been attempted.
func (nb *Notebook) Close(ctx context.Context) error {
	nb.status.Cancel()
	return errors.Join(
		nb.saveDocuments(ctx),
		nb.saveNotes(ctx),
		nb.saveSettings(ctx),
	)
}

func (nb *Notebook) saveDocuments(ctx context.Context) error {
	rows := make([]store.Document, len(nb.docs))
	for i, d := range nb.docs {
		rows[i] = store.Document{Position: i, Name: d.Name, Content: d.Content, FilePath: d.FilePath}
	}
	if err := nb.store.SaveDocuments(ctx, rows); err != nil {
		nb.logger.Error("failed to save documents", "error", err)
		return fmt.Errorf("saving documents: %w", err)
	}
	return nil
}

func (nb *Notebook) saveNotes(ctx context.Context) error {
	names := make([]string, len(nb.tabs))
	byTab := make(map[string][]store.NoteRow, len(nb.tabs))
	for i, t := range nb.tabs {
		names[i] = t.name
		rows := make([]store.NoteRow, len(t.notes))
		for j, n := range t.notes {
			rows[j] = n.row(t.name, j)
		}
		byTab[t.name] = rows
	}
	if err := nb.store.SaveNotes(ctx, names, byTab); err != nil {
		nb.logger.Error("failed to save notes", "error", err)
		return fmt.Errorf("saving notes: %w", err)
	}
	return nil
}

func (nb *Notebook) saveSettings(ctx context.Context) error {
	if err := nb.store.SaveSettings(ctx, nb.settings); err != nil {
		nb.logger.Error("failed to save settings", "error", err)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func (nb *Notebook) flash(msg string) {
	nb.flashFor(msg, nb.cfg.Status.Duration)
}

func (nb *Notebook) flashFor(msg string, d time.Duration) {
	nb.status.Show(msg, d)
}

func (nb *Notebook) redraw() {
	nb.renderer.RedrawNotes(nb.activeTab, nb.DisplayNotes(nb.activeTab, ""))
}
