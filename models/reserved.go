package models

import "time"

// CacheRecord is the persisted snapshot of the reserved list. Timestamp is
// milliseconds since the Unix epoch.
type CacheRecord struct {
	Usernames []string `json:"usernames"`
	Timestamp int64    `json:"timestamp"`
}

func NewCacheRecord(names []string, fetchedAt time.Time) *CacheRecord {
	cp := make([]string, len(names))
	copy(cp, names)
	return &CacheRecord{Usernames: cp, Timestamp: fetchedAt.UnixMilli()}
}

func (r *CacheRecord) FetchedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// IsFresh reports whether the record is younger than ttl at now.
func (r *CacheRecord) IsFresh(now time.Time, ttl time.Duration) bool {
	if r == nil {
		return false
	}
	return now.Sub(r.FetchedAt()) < ttl
}

type CheckResult struct {
	Name       string `json:"name"`
	IsReserved bool   `json:"isReserved"`
}

type Stats struct {
	Total    int              `json:"total"`
	Shortest int              `json:"shortest"`
	Longest  int              `json:"longest"`
	Average  int              `json:"average"`
	ByLength map[int][]string `json:"byLength"`
}

// Mirror is one remote copy of the reserved list and the encoding it is served in.
type Mirror struct {
	URL    string `yaml:"url" json:"url"`
	Format string `yaml:"format" json:"format"`
}
