// ABOUTME: Note and note tab operations with validation and display ordering
// ABOUTME: Every mutation rewrites the notes tables and redraws the active tab

package notebook

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/2389/notebook/internal/status"
	"github.com/2389/notebook/internal/store"
)

// rejectedFlash is how long the length warning stays visible.
const rejectedFlash = 2 * time.Second

// Note is a short checklist item. ID is a process-local handle, not stored.
type Note struct {
	ID        string
	Text      string
	Done      bool
	Pinned    bool
	Date      string
	Color     string
	TimeStart string
	TimeEnd   string
}

// Label renders the note as "N. text  (date start-end)". Missing parts are
// left out, and the parentheses are dropped when there is no date or time.
func (n Note) Label(number int) string {
	start := strings.TrimSpace(n.TimeStart)
	end := strings.TrimSpace(n.TimeEnd)

	var timePart string
	switch {
	case start != "" && end != "":
		timePart = " " + start + "-" + end
	case start != "":
		timePart = " " + start
	case end != "":
		timePart = " " + end
	}

	meta := strings.TrimSpace(n.Date + timePart)
	if meta == "" {
		return fmt.Sprintf("%d. %s", number, n.Text)
	}
	return fmt.Sprintf("%d. %s  (%s)", number, n.Text, meta)
}

func noteFromRow(r store.NoteRow) *Note {
	return &Note{
		ID:        uuid.NewString(),
		Text:      r.Text,
		Done:      r.Done,
		Pinned:    r.Pinned,
		Date:      r.Date,
		Color:     r.Color,
		TimeStart: r.TimeStart,
		TimeEnd:   r.TimeEnd,
	}
}

func (n *Note) row(tab string, pos int) store.NoteRow {
	return store.NoteRow{
		Position:  pos,
		TabName:   tab,
		Text:      n.Text,
		Done:      n.Done,
		Pinned:    n.Pinned,
		Date:      n.Date,
		Color:     n.Color,
		TimeStart: n.TimeStart,
		TimeEnd:   n.TimeEnd,
	}
}

type noteTab struct {
	name  string
	notes []*Note
}

// NoteInput is what the add form submits. Everything but Text is optional.
type NoteInput struct {
	Text      string
	Date      string
	TimeStart string
	TimeEnd   string
	Color     string // palette name or hex; empty means Gray
}

// OutcomeStatus classifies the result of AddNote.
type OutcomeStatus int

const (
	Success OutcomeStatus = iota
	Rejected
	Failed
)

func (s OutcomeStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeStatus(%d)", int(s))
	}
}

// Reason explains a Rejected outcome.
type Reason string

const (
	ReasonEmptyText    Reason = "empty_text"
	ReasonTextTooLong  Reason = "text_too_long"
	ReasonUnknownColor Reason = "unknown_color"
)

// Outcome is the typed result of AddNote. Rejected outcomes never touch the
// store. Failed means the note was added in memory but the save failed.
type Outcome struct {
	Status OutcomeStatus
	Reason Reason
	Note   Note
	Err    error
}

// OK reports whether the note was added and saved.
func (o Outcome) OK() bool { return o.Status == Success }

// Direction for MoveNote.
type Direction int

const (
	Up Direction = iota
	Down
)

// AddNote validates in and appends the note to tab. An empty tab means the
// active one; an unknown tab is created.
func (nb *Notebook) AddNote(ctx context.Context, tab string, in NoteInput) Outcome {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Outcome{Status: Rejected, Reason: ReasonEmptyText}
	}

	limit := nb.cfg.Notes.MaxTextLength
	if utf8.RuneCountInString(text) > limit {
		nb.flashFor(fmt.Sprintf("Maximum %d characters!", limit), rejectedFlash)
		return Outcome{Status: Rejected, Reason: ReasonTextTooLong}
	}

	color, ok := ResolveColor(in.Color)
	if !ok {
		return Outcome{Status: Rejected, Reason: ReasonUnknownColor}
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = nb.clock().Format(nb.cfg.Notes.DateLayout)
	}

	if tab == "" {
		tab = nb.activeTab
	}
	t := nb.tab(tab)
	if t == nil {
		t = &noteTab{name: tab}
		nb.tabs = append(nb.tabs, t)
	}

	n := &Note{
		ID:        uuid.NewString(),
		Text:      text,
		Date:      date,
		Color:     color,
		TimeStart: strings.TrimSpace(in.TimeStart),
		TimeEnd:   strings.TrimSpace(in.TimeEnd),
	}
	t.notes = append(t.notes, n)

	if err := nb.saveNotes(ctx); err != nil {
		nb.redraw()
		return Outcome{Status: Failed, Note: *n, Err: err}
	}
	nb.redraw()
	nb.flash(status.MsgNoteSaved)
	return Outcome{Status: Success, Note: *n}
}

// ToggleDone flips the completion flag of the note.
func (nb *Notebook) ToggleDone(ctx context.Context, id string) error {
	return nb.mutateNote(ctx, id, func(t *noteTab, i int) bool {
		t.notes[i].Done = !t.notes[i].Done
		return true
	})
}

// TogglePin flips the pinned flag of the note.
func (nb *Notebook) TogglePin(ctx context.Context, id string) error {
	return nb.mutateNote(ctx, id, func(t *noteTab, i int) bool {
		t.notes[i].Pinned = !t.notes[i].Pinned
		return true
	})
}

// MoveNote swaps the note with its neighbour in stored order. Moving past
// either end is a no-op and saves nothing.
func (nb *Notebook) MoveNote(ctx context.Context, id string, dir Direction) error {
	return nb.mutateNote(ctx, id, func(t *noteTab, i int) bool {
		j := i - 1
		if dir == Down {
			j = i + 1
		}
		if j < 0 || j >= len(t.notes) {
			return false
		}
		t.notes[i], t.notes[j] = t.notes[j], t.notes[i]
		return true
	})
}

// DeleteNote removes the note from its tab.
func (nb *Notebook) DeleteNote(ctx context.Context, id string) error {
	return nb.mutateNote(ctx, id, func(t *noteTab, i int) bool {
		t.notes = slices.Delete(t.notes, i, i+1)
		return true
	})
}

// mutateNote applies fn to the note and, if fn reports a change, saves and
// redraws.
func (nb *Notebook) mutateNote(ctx context.Context, id string, fn func(t *noteTab, i int) bool) error {
	t, i := nb.findNote(id)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNote, id)
	}
	if !fn(t, i) {
		return nil
	}
	err := nb.saveNotes(ctx)
	nb.redraw()
	return err
}

func (nb *Notebook) findNote(id string) (*noteTab, int) {
	for _, t := range nb.tabs {
		if i := slices.IndexFunc(t.notes, func(n *Note) bool { return n.ID == id }); i >= 0 {
			return t, i
		}
	}
	return nil, -1
}

// NoteTabs returns the tab names in order.
func (nb *Notebook) NoteTabs() []string {
	names := make([]string, len(nb.tabs))
	for i, t := range nb.tabs {
		names[i] = t.name
	}
	return names
}

// ActiveNoteTab returns the selected tab.
func (nb *Notebook) ActiveNoteTab() string { return nb.activeTab }

// SelectNoteTab makes name active and redraws it.
func (nb *Notebook) SelectNoteTab(name string) error {
	if nb.tab(name) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNoteTab, name)
	}
	nb.activeTab = name
	nb.redraw()
	return nil
}

// NewNoteTab appends a tab and makes it active. A blank name becomes
// "<default> N" with N one past the current tab count.
func (nb *Notebook) NewNoteTab(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("%s %d", nb.cfg.Notes.DefaultTabName, len(nb.tabs)+1)
	}
	name = uniqueName(name, func(n string) bool { return nb.tab(n) != nil })

	nb.tabs = append(nb.tabs, &noteTab{name: name})
	nb.activeTab = name

	err := nb.saveNotes(ctx)
	nb.redraw()
	return name, err
}

// DeleteNoteTab removes the tab. The last remaining tab is cleared instead.
func (nb *Notebook) DeleteNoteTab(ctx context.Context, name string) error {
	idx := slices.IndexFunc(nb.tabs, func(t *noteTab) bool { return t.name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNoteTab, name)
	}

	msg := status.MsgTabDeleted
	if len(nb.tabs) <= 1 {
		nb.tabs[idx].notes = nil
		msg = status.MsgTabCleared
	} else {
		nb.tabs = slices.Delete(nb.tabs, idx, idx+1)
		if nb.activeTab == name {
			nb.activeTab = nb.tabs[max(idx-1, 0)].name
		}
	}

	if err := nb.saveNotes(ctx); err != nil {
		nb.redraw()
		return err
	}
	nb.redraw()
	nb.flash(msg)
	return nil
}

// Notes returns the notes of tab in stored order.
func (nb *Notebook) Notes(tab string) ([]Note, error) {
	t := nb.tab(tab)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNoteTab, tab)
	}
	out := make([]Note, len(t.notes))
	for i, n := range t.notes {
		out[i] = *n
	}
	return out, nil
}

// DisplayNotes returns the notes of tab in display order: pinned first, each
// group keeping its stored order. A non-empty query keeps only notes whose
// text contains it, ignoring case.
func (nb *Notebook) DisplayNotes(tab, query string) []Note {
	t := nb.tab(tab)
	if t == nil {
		return nil
	}
	query = strings.ToLower(query)

	out := make([]Note, 0, len(t.notes))
	for _, pinned := range []bool{true, false} {
		for _, n := range t.notes {
			if n.Pinned != pinned {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(n.Text), query) {
				continue
			}
			out = append(out, *n)
		}
	}
	return out
}

func (nb *Notebook) tab(name string) *noteTab {
	for _, t := range nb.tabs {
		if t.name == name {
			return t
		}
	}
	return nil
}
