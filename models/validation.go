package models

// ValidationRules are caller-supplied username constraints. Nil or empty
// fields impose no constraint.
type ValidationRules struct {
	MinLength         *int     `json:"minLength,omitempty" yaml:"min_length" validate:"omitempty,gte=0"`
	MaxLength         *int     `json:"maxLength,omitempty" yaml:"max_length" validate:"omitempty,gte=1"`
	AllowedChars      string   `json:"allowedChars,omitempty" yaml:"allowed_chars"`
	ForbiddenPatterns []string `json:"forbiddenPatterns,omitempty" yaml:"forbidden_patterns" validate:"omitempty,dive,required"`
}

type ValidationResult struct {
	Name    string   `json:"name"`
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

type ValidateUsernameRequest struct {
	Name  string           `json:"name" validate:"required"`
	Rules *ValidationRules `json:"rules"`
}
