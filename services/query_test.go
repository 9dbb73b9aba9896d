package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/reserved/models"
)

func TestGetByPattern(t *testing.T) {
	reg := withNames(t, false, "admin", "administrator", "api", "root")
	assert.Equal(t, []string{"admin", "administrator"}, reg.GetByPattern("^adm"))
	assert.Equal(t, []string{"admin", "administrator"}, reg.GetByPattern("^ADM"))
	assert.Equal(t, []string{"api"}, reg.GetByPattern(`^a.i$`))
	assert.Empty(t, reg.GetByPattern("("))
	assert.NotNil(t, reg.GetByPattern("zzz"))
}

func TestGetByPattern_CaseSensitive(t *testing.T) {
	reg := withNames(t, true, "Admin", "admin")
	assert.Equal(t, []string{"Admin"}, reg.GetByPattern("^A"))
}

func TestGetByPrefixAndSuffix(t *testing.T) {
	reg := withNames(t, false, "admin", "superadmin", "adminbot", "root")
	assert.Equal(t, []string{"admin", "adminbot"}, reg.GetByPrefix("ADMIN"))
	assert.Equal(t, []string{"admin", "superadmin"}, reg.GetBySuffix("Admin"))
	assert.Empty(t, reg.GetByPrefix("x"))
	assert.Len(t, reg.GetByPrefix(""), 4)
}

func TestGetStats(t *testing.T) {
	reg := withNames(t, false, "ab", "abcd", "abcdef", "cd")
	stats := reg.GetStats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Shortest)
	assert.Equal(t, 6, stats.Longest)
	assert.Equal(t, 4, stats.Average)
	assert.Equal(t, map[int][]string{2: {"ab", "cd"}, 4: {"abcd"}, 6: {"abcdef"}}, stats.ByLength)
}

func TestGetStats_AverageRounds(t *testing.T) {
	reg := withNames(t, false, "a", "ab")
	assert.Equal(t, 2, reg.GetStats().Average)
}

func TestGetStats_EmptySet(t *testing.T) {
	reg := withNames(t, false)
	assert.Equal(t, models.Stats{ByLength: map[int][]string{}}, reg.GetStats())
}

func TestGetStats_ShortestNotAboveLongest(t *testing.T) {
	reg := withNames(t, false, "x", "longer-name", "mid")
	s := reg.GetStats()
	assert.LessOrEqual(t, s.Shortest, s.Longest)
}
