// ABOUTME: Tests for the CLI subcommands against an in-memory store
// ABOUTME: Drives session.dispatch the way main does and inspects output and store state

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/notebook/internal/notebook"
	"github.com/2389/notebook/internal/store"
)

func newSession(t *testing.T) (*session, *bytes.Buffer, *store.MockStore) {
	t.Helper()
	color.NoColor = true

	m := store.NewMockStore()
	nb, err := notebook.Open(context.Background(), m, notebook.Options{})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &session{nb: nb, out: out, in: strings.NewReader("")}, out, m
}

func run(t *testing.T, s *session, command string, args ...string) {
	t.Helper()
	require.NoError(t, s.dispatch(context.Background(), command, args))
}

func TestDocCommands(t *testing.T) {
	s, out, _ := newSession(t)

	run(t, s, "doc", "new", "Plans")
	assert.Equal(t, "Plans\n", out.String())

	s.in = strings.NewReader("step one\nstep two")
	run(t, s, "doc", "write", "Plans")

	out.Reset()
	run(t, s, "doc", "cat", "Plans")
	assert.Equal(t, "step one\nstep two", out.String())

	out.Reset()
	run(t, s, "doc", "rename", "Plans", "Document 1")
	assert.Equal(t, "Document 1 (2)\n", out.String())

	run(t, s, "doc", "close", "Document 1")
	out.Reset()
	run(t, s, "show")
	assert.Contains(t, out.String(), "Document 1 (2)")
	assert.NotContains(t, out.String(), "Document 1\n")
}

func TestNoteCommands(t *testing.T) {
	s, out, m := newSession(t)

	run(t, s, "note", "add", "first")
	run(t, s, "note", "add", "second", "--color", "blue", "--start", "09:00")
	run(t, s, "note", "pin", "2")

	out.Reset()
	run(t, s, "note", "list")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1. second")
	assert.Contains(t, lines[1], "2. first")

	run(t, s, "note", "rm", "2")
	_, rows, err := m.LoadNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Text)
	assert.Equal(t, "#1f4fff", rows[0].Color)

	err = s.dispatch(context.Background(), "note", []string{"done", "7"})
	assert.ErrorIs(t, err, errNoteNotShown)

	err = s.dispatch(context.Background(), "note", []string{"add", "this text is far too long"})
	assert.ErrorContains(t, err, "text_too_long")
}

func TestTabCommands(t *testing.T) {
	s, out, _ := newSession(t)

	run(t, s, "tab", "new", "Work")
	assert.Equal(t, "Work\n", out.String())
	run(t, s, "note", "add", "deploy", "--tab", "Work")

	run(t, s, "tab", "rm", "Work")
	assert.Equal(t, []string{"Notes"}, s.nb.NoteTabs())
}

func TestSettingsCommand(t *testing.T) {
	s, out, m := newSession(t)

	run(t, s, "settings", "notes_font_size", "18")
	v, ok := m.RawSetting("notes_font_size")
	assert.True(t, ok)
	assert.Equal(t, "18", v)

	out.Reset()
	run(t, s, "settings", "notes_font_size")
	assert.Equal(t, "18\n", out.String())

	out.Reset()
	run(t, s, "settings")
	assert.Contains(t, out.String(), "theme = dark")

	assert.Error(t, s.dispatch(context.Background(), "settings", []string{"notes_font_size", "big"}))
}
