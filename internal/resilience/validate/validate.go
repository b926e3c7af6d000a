// Package validate checks string fields against declarative rules and
// reports at most one error per field.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule describes the checks applied to one field. Zero values disable a check.
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	// Message replaces the generic pattern mismatch message.
	Message string
	// Custom returns a non-empty string to reject the value.
	Custom func(value string) string
}

// Rules maps field names to their rule.
type Rules map[string]Rule

// Result is the outcome of Validate.
type Result struct {
	Valid       bool              `json:"isValid"`
	FieldErrors map[string]string `json:"errors"`
}

// Validate checks values against rules. Checks run in the order required,
// min length, max length, pattern, custom, and stop at the first failure.
// Blank values of optional fields are not checked further.
func Validate(values map[string]string, rules Rules) Result {
	errs := make(map[string]string)
	for field, rule := range rules {
		if msg := check(field, values[field], rule); msg != "" {
			errs[field] = msg
		}
	}
	return Result{Valid: len(errs) == 0, FieldErrors: errs}
}

func check(field, value string, rule Rule) string {
	if strings.TrimSpace(value) == "" {
		if rule.Required {
			return fmt.Sprintf("%s is required", field)
		}
		return ""
	}

	n := utf8.RuneCountInString(value)
	switch {
	case rule.MinLength > 0 && n < rule.MinLength:
		return fmt.Sprintf("%s must be at least %d characters", field, rule.MinLength)
	case rule.MaxLength > 0 && n > rule.MaxLength:
		return fmt.Sprintf("%s must be less than %d characters", field, rule.MaxLength)
	case rule.Pattern != nil && !rule.Pattern.MatchString(value):
		if rule.Message != "" {
			return rule.Message
		}
		return fmt.Sprintf("%s format is invalid", field)
	case rule.Custom != nil:
		return rule.Custom(value)
	}
	return ""
}
