// ABOUTME: Document, note, tab and settings subcommands
// ABOUTME: Notes are addressed by their display number within a tab

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/2389/notebook/internal/notebook"
)

var (
	errMissingArg    = errors.New("missing argument")
	errNoteNotShown  = errors.New("no note with that number")
	errUnknownAction = errors.New("unknown action")
)

func (s *session) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "show":
		return s.show()
	case "doc":
		return s.doc(ctx, args)
	case "note":
		return s.note(ctx, args)
	case "tab":
		return s.tab(ctx, args)
	case "settings":
		return s.settings(ctx, args)
	default:
		return fmt.Errorf("%w: %s", errUnknownAction, command)
	}
}

func (s *session) show() error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	cyan.Fprintln(s.out, "Documents")
	for _, d := range s.nb.Documents() {
		marker := "  "
		if d.Name == s.nb.ActiveDocument() {
			marker = green.Sprint("▶ ")
		}
		fmt.Fprintf(s.out, "  %s%s", marker, d.Name)
		if d.FilePath != "" {
			color.New(color.FgHiBlack).Fprintf(s.out, "  → %s", d.FilePath)
		}
		fmt.Fprintln(s.out)
	}

	fmt.Fprintln(s.out)
	cyan.Fprintln(s.out, "Note tabs")
	for _, name := range s.nb.NoteTabs() {
		marker := "  "
		if name == s.nb.ActiveNoteTab() {
			marker = green.Sprint("▶ ")
		}
		notes, _ := s.nb.Notes(name)
		fmt.Fprintf(s.out, "  %s%s (%d)\n", marker, name, len(notes))
	}

	fmt.Fprintln(s.out)
	printNotes(s.out, s.nb.DisplayNotes(s.nb.ActiveNoteTab(), ""))
	return nil
}

func printNotes(w io.Writer, notes []notebook.Note) {
	pinned := color.New(color.FgHiYellow)
	done := color.New(color.FgGreen)

	for i, n := range notes {
		label := n.Label(i + 1)
		switch {
		case n.Pinned:
			pinned.Fprintln(w, "  "+label)
		case n.Done:
			done.Fprintln(w, "  "+label)
		default:
			fmt.Fprintln(w, "  "+label)
		}
	}
}

func (s *session) doc(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("doc", flag.ContinueOnError)
	html := fs.Bool("html", false, "Render Markdown to HTML when exporting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()
	if len(args) == 0 {
		return fmt.Errorf("%w: doc action", errMissingArg)
	}

	action, rest := args[0], args[1:]
	switch action {
	case "new":
		name, err := s.nb.NewDocument(ctx, arg(rest, 0))
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, name)
		return nil

	case "cat":
		if len(rest) < 1 {
			return fmt.Errorf("%w: document name", errMissingArg)
		}
		text, err := s.nb.DocumentText(rest[0])
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, text)
		return nil

	case "write":
		if len(rest) < 1 {
			return fmt.Errorf("%w: document name", errMissingArg)
		}
		data, err := io.ReadAll(s.in)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		return s.nb.SetDocumentText(rest[0], string(data))

	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("%w: old and new name", errMissingArg)
		}
		name, err := s.nb.RenameDocument(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, name)
		return nil

	case "close":
		if len(rest) < 1 {
			return fmt.Errorf("%w: document name", errMissingArg)
		}
		return s.nb.CloseDocument(ctx, rest[0])

	case "export":
		if len(rest) < 2 {
			return fmt.Errorf("%w: document name and path", errMissingArg)
		}
		if *html {
			return s.nb.ExportDocumentHTML(ctx, rest[0], rest[1])
		}
		return s.nb.ExportDocument(ctx, rest[0], rest[1])

	default:
		return fmt.Errorf("%w: doc %s", errUnknownAction, action)
	}
}

func (s *session) note(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("note", flag.ContinueOnError)
	tab := fs.StringP("tab", "t", "", "Note tab (default: active tab)")
	search := fs.StringP("search", "s", "", "Only number notes containing this text")
	date := fs.StringP("date", "d", "", "Date (default: today)")
	start := fs.String("start", "", "Start time, HH:MM")
	end := fs.String("end", "", "End time, HH:MM")
	colorName := fs.StringP("color", "c", "", "Gray, Blue, Orange, Yellow or Purple")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()
	if len(args) == 0 {
		return fmt.Errorf("%w: note action", errMissingArg)
	}

	tabName := *tab
	if tabName == "" {
		tabName = s.nb.ActiveNoteTab()
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		printNotes(s.out, s.nb.DisplayNotes(tabName, *search))
		return nil

	case "add":
		o := s.nb.AddNote(ctx, tabName, notebook.NoteInput{
			Text:      arg(rest, 0),
			Date:      *date,
			TimeStart: *start,
			TimeEnd:   *end,
			Color:     *colorName,
		})
		switch o.Status {
		case notebook.Rejected:
			return fmt.Errorf("note rejected: %s", o.Reason)
		case notebook.Failed:
			return o.Err
		}
		return nil
	}

	if len(rest) < 1 {
		return fmt.Errorf("%w: note number", errMissingArg)
	}
	id, err := s.noteID(tabName, *search, rest[0])
	if err != nil {
		return err
	}

	switch action {
	case "done":
		return s.nb.ToggleDone(ctx, id)
	case "pin":
		return s.nb.TogglePin(ctx, id)
	case "up":
		return s.nb.MoveNote(ctx, id, notebook.Up)
	case "down":
		return s.nb.MoveNote(ctx, id, notebook.Down)
	case "rm":
		return s.nb.DeleteNote(ctx, id)
	default:
		return fmt.Errorf("%w: note %s", errUnknownAction, action)
	}
}

// noteID maps a display number to the note's handle.
func (s *session) noteID(tab, search, number string) (string, error) {
	n, err := strconv.Atoi(number)
	if err != nil {
		return "", fmt.Errorf("note number %q: %w", number, err)
	}
	notes := s.nb.DisplayNotes(tab, search)
	if n < 1 || n > len(notes) {
		return "", fmt.Errorf("%w: %d in %s", errNoteNotShown, n, tab)
	}
	return notes[n-1].ID, nil
}

func (s *session) tab(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: tab action", errMissingArg)
	}

	action, rest := args[0], args[1:]
	switch action {
	case "new":
		name, err := s.nb.NewNoteTab(ctx, arg(rest, 0))
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, name)
		return nil
	case "rm":
		if len(rest) < 1 {
			return fmt.Errorf("%w: tab name", errMissingArg)
		}
		return s.nb.DeleteNoteTab(ctx, rest[0])
	default:
		return fmt.Errorf("%w: tab %s", errUnknownAction, action)
	}
}

func (s *session) settings(ctx context.Context, args []string) error {
	st := s.nb.Settings()
	switch len(args) {
	case 0:
		for _, key := range st.Keys() {
			v, _ := st.Get(key)
			fmt.Fprintf(s.out, "%s = %v\n", key, v)
		}
		return nil
	case 1:
		v, ok := s.nb.Setting(args[0])
		if !ok {
			return fmt.Errorf("unknown setting: %s", args[0])
		}
		fmt.Fprintln(s.out, v)
		return nil
	default:
		return s.nb.SetSetting(ctx, args[0], args[1])
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
