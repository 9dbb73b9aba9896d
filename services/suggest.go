package services

import (
	"strconv"
	"strings"
)

var (
	suggestionSuffixes = []string{"user", "profile", "account", "real", "official", "app"}
	suggestionPrefixes = []string{"my", "the", "real", "official", "user"}
)

// SuggestAlternatives proposes up to count free variants of a reserved name:
// numeric suffixes first, then word suffixes, then word prefixes. A name that
// is not reserved is returned unchanged as the only suggestion.
func (r *Registry) SuggestAlternatives(name string, count int) []string {
	base := strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.has(Normalize(base, r.caseSensitive)) {
		return []string{name}
	}
	out := []string{}
	if count <= 0 {
		return out
	}

	seen := make(map[string]struct{}, count)
	try := func(candidate string) bool {
		n := Normalize(candidate, r.caseSensitive)
		if _, dup := seen[n]; dup || r.has(n) {
			return false
		}
		seen[n] = struct{}{}
		out = append(out, candidate)
		return len(out) >= count
	}

	for i := 1; i <= count; i++ {
		if try(base + strconv.Itoa(i)) {
			return out
		}
	}
	for _, s := range suggestionSuffixes {
		if try(base + s) {
			return out
		}
	}
	for _, p := range suggestionPrefixes {
		if try(p + base) {
			return out
		}
	}
	return out
}
