// ABOUTME: Fixed note color palette and color token resolution
// ABOUTME: Accepts a palette name or its hex value, case-insensitively

package notebook

import "strings"

// Color is one palette entry; Hex is the token stored in the database.
type Color struct {
	Name string
	Hex  string
}

var palette = []Color{
	{Name: "Gray", Hex: "#2b2b2b"},
	{Name: "Blue", Hex: "#1f4fff"},
	{Name: "Orange", Hex: "#ff8c1a"},
	{Name: "Yellow", Hex: "#f5c542"},
	{Name: "Purple", Hex: "#7a3db8"},
}

// Palette returns the note colors in menu order. Gray is the default.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette)
	return out
}

// ResolveColor maps a palette name or hex token to the stored hex token.
// Empty input resolves to the default color.
func ResolveColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return palette[0].Hex, true
	}
	for _, c := range palette {
		if strings.EqualFold(s, c.Name) || strings.EqualFold(s, c.Hex) {
			return c.Hex, true
		}
	}
	return "", false
}
