// ABOUTME: Tests for the settings registry and value coercion
// ABOUTME: Covers defaults, typed Set, stored-value Apply rules, and Encode

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	s := New()

	assert.Equal(t, "dark", s.String(Theme))
	assert.Equal(t, "Segoe UI", s.String(FontFamily))
	assert.Equal(t, 14, s.Int(NotesFontSize))
	assert.Equal(t, 14, s.Int(EditorFontSize))
	assert.False(t, s.Bool(AlwaysOnTop))
	assert.True(t, s.Bool(ShowSaveStatus))
	assert.Equal(t, []string{Theme, FontFamily, NotesFontSize, EditorFontSize, AlwaysOnTop, ShowSaveStatus}, s.Keys())
}

func TestApply_IntParsing(t *testing.T) {
	s := New()

	assert.True(t, s.Apply(NotesFontSize, "16"))
	assert.Equal(t, 16, s.Int(NotesFontSize))

	// parse failure keeps the current value
	assert.True(t, s.Apply(NotesFontSize, "huge"))
	assert.Equal(t, 16, s.Int(NotesFontSize))

	assert.True(t, s.Apply(EditorFontSize, " 12 "))
	assert.Equal(t, 12, s.Int(EditorFontSize))
}

func TestApply_BoolTokens(t *testing.T) {
	for _, raw := range []string{"1", "true", "TRUE", "Yes", "on", "ON"} {
		s := New()
		s.Apply(AlwaysOnTop, raw)
		assert.True(t, s.Bool(AlwaysOnTop), "token %q should be true", raw)
	}
	for _, raw := range []string{"0", "false", "no", "off", "", "enabled", "2"} {
		s := New()
		s.Apply(ShowSaveStatus, raw)
		assert.False(t, s.Bool(ShowSaveStatus), "token %q should be false", raw)
	}
}

func TestApply_StringAndUnknown(t *testing.T) {
	s := New()

	assert.True(t, s.Apply(Theme, "light"))
	assert.Equal(t, "light", s.String(Theme))

	assert.False(t, s.Apply("window_width", "900"))
	_, ok := s.Get("window_width")
	assert.False(t, ok)
}

func TestSet_Typed(t *testing.T) {
	s := New()

	require.NoError(t, s.Set(NotesFontSize, 18))
	assert.Equal(t, 18, s.Int(NotesFontSize))

	require.NoError(t, s.Set(AlwaysOnTop, true))
	assert.True(t, s.Bool(AlwaysOnTop))

	require.NoError(t, s.Set(FontFamily, "Consolas"))
	assert.Equal(t, "Consolas", s.String(FontFamily))
}

func TestSet_CoercesStrings(t *testing.T) {
	s := New()

	require.NoError(t, s.Set(EditorFontSize, "20"))
	assert.Equal(t, 20, s.Int(EditorFontSize))

	require.NoError(t, s.Set(ShowSaveStatus, "off"))
	assert.False(t, s.Bool(ShowSaveStatus))

	err := s.Set(EditorFontSize, "twenty")
	require.Error(t, err)
	assert.Equal(t, 20, s.Int(EditorFontSize))
}

func TestSet_Rejects(t *testing.T) {
	s := New()

	err := s.Set("missing", "x")
	assert.ErrorIs(t, err, ErrUnknownKey)

	assert.Error(t, s.Set(NotesFontSize, 1.5))
	assert.Error(t, s.Set(Theme, 3))
	assert.Error(t, s.Set(AlwaysOnTop, 1))
}

func TestEncode(t *testing.T) {
	s := New()
	require.NoError(t, s.Set(NotesFontSize, 16))
	require.NoError(t, s.Set(AlwaysOnTop, true))

	enc := s.Encode()
	assert.Len(t, enc, len(Definitions()))
	assert.Equal(t, "16", enc[NotesFontSize])
	assert.Equal(t, "true", enc[AlwaysOnTop])
	assert.Equal(t, "false", New().Encode()[AlwaysOnTop])
	assert.Equal(t, "dark", enc[Theme])
}

func TestClone_Independent(t *testing.T) {
	s := New()
	c := s.Clone()
	require.NoError(t, c.Set(Theme, "light"))

	assert.Equal(t, "dark", s.String(Theme))
	assert.Equal(t, "light", c.String(Theme))
}
