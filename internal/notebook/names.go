// ABOUTME: Collision resolution for document and note tab names
// ABOUTME: A taken name gets the lowest free " (N)" suffix starting at 2

package notebook

import "fmt"

// uniqueName returns name unchanged when it is free, otherwise the first of
// "name (2)", "name (3)", ... that taken rejects.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
