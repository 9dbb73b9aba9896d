package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/reserved/models"
	"github.com/yourusername/reserved/services"
)

func intPtr(v int) *int { return &v }

func TestValidateUsername_MinLength(t *testing.T) {
	reg := withNames(t, false, "admin")
	res := reg.ValidateUsername("ab", models.ValidationRules{MinLength: intPtr(3)})
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "at least 3")
}

func TestValidateUsername_AccumulatesErrors(t *testing.T) {
	reg := withNames(t, false, "admin")
	res := reg.ValidateUsername("admin", models.ValidationRules{
		MinLength:         intPtr(6),
		MaxLength:         intPtr(4),
		AllowedChars:      "0-9",
		ForbiddenPatterns: []string{"ADM"},
	})
	assert.False(t, res.IsValid)
	assert.Equal(t, "admin", res.Name)
	assert.Len(t, res.Errors, 5)
	assert.Equal(t, "Username is reserved", res.Errors[0])
}

func TestValidateUsername_NoRules(t *testing.T) {
	reg := withNames(t, false, "admin")
	res := reg.ValidateUsername("alice", models.ValidationRules{})
	assert.True(t, res.IsValid)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)
}

func TestValidateUsername_CharacterClass(t *testing.T) {
	reg := withNames(t, false)
	assert.False(t, reg.ValidateUsername("abc_", models.ValidationRules{AllowedChars: "a-z"}).IsValid)
	assert.True(t, reg.ValidateUsername("abc_", models.ValidationRules{AllowedChars: "[a-z_]"}).IsValid)
	assert.False(t, reg.ValidateUsername("", models.ValidationRules{AllowedChars: "a-z"}).IsValid)
	assert.False(t, reg.ValidateUsername("abc", models.ValidationRules{AllowedChars: "z-a"}).IsValid)
}

func TestValidateUsername_ForbiddenPatterns(t *testing.T) {
	reg := withNames(t, false)
	res := reg.ValidateUsername("BadGuy", models.ValidationRules{ForbiddenPatterns: []string{"bad", "^guy"}})
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 1)

	// Patterns that do not compile are matched literally.
	assert.False(t, reg.ValidateUsername("a(b", models.ValidationRules{ForbiddenPatterns: []string{"("}}).IsValid)
	assert.True(t, reg.ValidateUsername("ab", models.ValidationRules{ForbiddenPatterns: []string{"("}}).IsValid)
}

func TestValidateUsername_LengthCountsCharacters(t *testing.T) {
	reg := withNames(t, false)
	assert.True(t, reg.ValidateUsername("äöü", models.ValidationRules{MaxLength: intPtr(3)}).IsValid)

	rules := models.ValidationRules{MinLength: intPtr(3), MaxLength: intPtr(4)}
	assert.True(t, reg.ValidateUsername("日本語", rules).IsValid)
	assert.True(t, reg.ValidateUsername("ñoño", rules).IsValid)

	short := reg.ValidateUsername("日本", rules)
	assert.False(t, short.IsValid)
	assert.Equal(t, []string{"Username must be at least 3 characters long"}, short.Errors)

	long := reg.ValidateUsername("ñoñoñ", rules)
	assert.False(t, long.IsValid)
	assert.Equal(t, []string{"Username must be at most 4 characters long"}, long.Errors)
}

func TestValidateUsername_ManyDistinctBounds(t *testing.T) {
	reg := withNames(t, false)
	for i := 1; i <= 2000; i++ {
		res := reg.ValidateUsername("abc", models.ValidationRules{MinLength: intPtr(i), MaxLength: intPtr(i + 1)})
		assert.Equal(t, i <= 3 && i+1 >= 3, res.IsValid, "bounds %d..%d", i, i+1)
	}
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, services.ValidateRules(models.ValidationRules{}))
	assert.NoError(t, services.ValidateRules(models.ValidationRules{MinLength: intPtr(3), MaxLength: intPtr(3)}))
	assert.ErrorIs(t, services.ValidateRules(models.ValidationRules{MinLength: intPtr(5), MaxLength: intPtr(3)}), services.ErrInvalidArgument)
	assert.ErrorIs(t, services.ValidateRules(models.ValidationRules{MinLength: intPtr(-1)}), services.ErrInvalidArgument)
	assert.ErrorIs(t, services.ValidateRules(models.ValidationRules{ForbiddenPatterns: []string{""}}), services.ErrInvalidArgument)
}
