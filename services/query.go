package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/reserved/models"
)

// GetByPattern returns the sorted entries matching the regular expression.
// Matching ignores case unless the registry is case sensitive. An invalid
// pattern yields no matches.
func (r *Registry) GetByPattern(pattern string) []string {
	expr := pattern
	if !r.caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		r.log.Debugw("invalid reserved search pattern", "pattern", pattern, "error", err)
		return []string{}
	}
	return r.filter(re.MatchString)
}

func (r *Registry) GetByPrefix(prefix string) []string {
	p := Normalize(prefix, r.caseSensitive)
	return r.filter(func(n string) bool { return strings.HasPrefix(n, p) })
}

func (r *Registry) GetBySuffix(suffix string) []string {
	s := Normalize(suffix, r.caseSensitive)
	return r.filter(func(n string) bool { return strings.HasSuffix(n, s) })
}

func (r *Registry) filter(keep func(string) bool) []string {
	out := []string{}
	r.mu.RLock()
	for n := range r.names {
		if keep(n) {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// GetStats summarizes entry lengths in characters. An empty set reports
// zero for every figure and an empty ByLength map.
func (r *Registry) GetStats() models.Stats {
	all := r.GetAll()
	stats := models.Stats{Total: len(all), ByLength: map[int][]string{}}
	if len(all) == 0 {
		return stats
	}
	sum := 0
	stats.Shortest = math.MaxInt
	for _, n := range all {
		l := utf8.RuneCountInString(n)
		sum += l
		stats.Shortest = min(stats.Shortest, l)
		stats.Longest = max(stats.Longest, l)
		stats.ByLength[l] = append(stats.ByLength[l], n)
	}
	stats.Average = int(math.Round(float64(sum) / float64(len(all))))
	return stats
}
