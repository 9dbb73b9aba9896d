package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/reserved/models"
)

var validate = validator.New()

// ValidateRules checks that a rule set is usable before it is applied.
func ValidateRules(rules models.ValidationRules) error {
	if err := validate.Struct(rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
		return fmt.Errorf("%w: minLength %d exceeds maxLength %d", ErrInvalidArgument, *rules.MinLength, *rules.MaxLength)
	}
	return nil
}

// ValidateUsername collects every rule violation for name. Unset rules are
// skipped; the result is valid when no violation was found.
func (r *Registry) ValidateUsername(name string, rules models.ValidationRules) models.ValidationResult {
	errs := []string{}

	if r.IsReserved(name) {
		errs = append(errs, "Username is reserved")
	}
	// Bounds are caller-supplied; they must not become validator tags.
	length := utf8.RuneCountInString(name)
	if rules.MinLength != nil && length < *rules.MinLength {
		errs = append(errs, fmt.Sprintf("Username must be at least %d characters long", *rules.MinLength))
	}
	if rules.MaxLength != nil && length > *rules.MaxLength {
		errs = append(errs, fmt.Sprintf("Username must be at most %d characters long", *rules.MaxLength))
	}
	if rules.AllowedChars != "" {
		re, err := regexp.Compile(charClassPattern(rules.AllowedChars))
		if err != nil || !re.MatchString(name) {
			errs = append(errs, fmt.Sprintf("Username may only contain characters in [%s]", strings.Trim(rules.AllowedChars, "[]")))
		}
	}
	for _, p := range rules.ForbiddenPatterns {
		if matchesForbidden(name, p) {
			errs = append(errs, fmt.Sprintf("Username matches forbidden pattern %q", p))
		}
	}

	return models.ValidationResult{Name: name, IsValid: len(errs) == 0, Errors: errs}
}

// charClassPattern anchors a character class such as "a-z0-9_" (brackets
// optional) so it must cover the whole string.
func charClassPattern(class string) string {
	if len(class) >= 2 && strings.HasPrefix(class, "[") && strings.HasSuffix(class, "]") {
		class = class[1 : len(class)-1]
	}
	return "^[" + class + "]+$"
}

// matchesForbidden treats p as a case-insensitive regular expression and
// falls back to a literal substring test when it does not compile.
func matchesForbidden(name, p string) bool {
	if p == "" {
		return false
	}
	if re, err := regexp.Compile("(?i)" + p); err == nil {
		return re.MatchString(name)
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(p))
}
