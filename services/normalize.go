package services

import "strings"

// Normalize is the single normalization applied to every name entering or
// querying the registry: surrounding whitespace is dropped and, unless the
// registry is case sensitive, the name is lower-cased.
func Normalize(s string, caseSensitive bool) string {
	s = strings.TrimSpace(s)
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

func normalizeAll(names []string, caseSensitive bool) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if v := Normalize(n, caseSensitive); v != "" {
			out = append(out, v)
		}
	}
	return out
}
