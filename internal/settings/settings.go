// ABOUTME: Typed user preferences with a fixed registry of known keys
// ABOUTME: Handles coercion of stored string values into ints, bools and strings

// Package settings holds the flat preference bag persisted in the settings table.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned when a key is not part of the registry
var ErrUnknownKey = errors.New("unknown setting")

// Kind is the value type of a setting
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Known setting keys
const (
	Theme          = "theme"
	FontFamily     = "font_family"
	NotesFontSize  = "notes_font_size"
	EditorFontSize = "editor_font_size"
	AlwaysOnTop    = "always_on_top"
	ShowSaveStatus = "show_save_status"
)

// Definition describes one known key and its compiled-in default
type Definition struct {
	Key     string
	Kind    Kind
	Default any
}

var registry = []Definition{
	{Key: Theme, Kind: KindString, Default: "dark"},
	{Key: FontFamily, Kind: KindString, Default: "Segoe UI"},
	{Key: NotesFontSize, Kind: KindInt, Default: 14},
	{Key: EditorFontSize, Kind: KindInt, Default: 14},
	{Key: AlwaysOnTop, Kind: KindBool, Default: false},
	{Key: ShowSaveStatus, Kind: KindBool, Default: true},
}

// Definitions returns the registry in its stable order.
func Definitions() []Definition {
	out := make([]Definition, len(registry))
	copy(out, registry)
	return out
}

func lookup(key string) (Definition, bool) {
	for _, d := range registry {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// Settings is the process-wide preference bag owned by the notebook.
// It is not safe for concurrent use.
type Settings struct {
	values map[string]any
}

// New returns settings initialized to the compiled-in defaults.
func New() *Settings {
	s := &Settings{values: make(map[string]any, len(registry))}
	for _, d := range registry {
		s.values[d.Key] = d.Default
	}
	return s
}

// Keys returns the known keys in registry order.
func (s *Settings) Keys() []string {
	keys := make([]string, len(registry))
	for i, d := range registry {
		keys[i] = d.Key
	}
	return keys
}

// Get returns the current value of a known key.
func (s *Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns a string setting, or "" when key is not a string setting.
func (s *Settings) String(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// Int returns an int setting, or 0 when key is not an int setting.
func (s *Settings) Int(key string) int {
	v, _ := s.values[key].(int)
	return v
}

// Bool returns a bool setting, or false when key is not a bool setting.
func (s *Settings) Bool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

// Set assigns value to a known key. The value must match the key's kind;
// string values are coerced strictly so that "abc" is refused for an int key.
func (s *Settings) Set(key string, value any) error {
	def, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if raw, isString := value.(string); isString && def.Kind != KindString {
		switch def.Kind {
		case KindInt:
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("setting %s: %q is not an integer", key, raw)
			}
			value = n
		case KindBool:
			value = parseBool(raw)
		}
	}

	switch def.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("setting %s: want string, got %T", key, value)
		}
	case KindInt:
		if _, ok := value.(int); !ok {
			return fmt.Errorf("setting %s: want int, got %T", key, value)
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("setting %s: want bool, got %T", key, value)
		}
	}

	s.values[key] = value
	return nil
}

// Apply overwrites key with a stored raw value using the load coercion rules:
// ints that fail to parse keep the current value, bools are true only for
// the tokens 1/true/yes/on (any case), strings are taken verbatim.
// Unknown keys are skipped and reported as false.
func (s *Settings) Apply(key, raw string) bool {
	def, ok := lookup(key)
	if !ok {
		return false
	}

	switch def.Kind {
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return true
		}
		s.values[key] = n
	case KindBool:
		s.values[key] = parseBool(raw)
	default:
		s.values[key] = raw
	}
	return true
}

// Encode renders every known key as its stored string form.
func (s *Settings) Encode() map[string]string {
	out := make(map[string]string, len(registry))
	for _, d := range registry {
		out[d.Key] = format(s.values[d.Key])
	}
	return out
}

// Clone returns an independent copy.
func (s *Settings) Clone() *Settings {
	c := &Settings{values: make(map[string]any, len(s.values))}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func format(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
