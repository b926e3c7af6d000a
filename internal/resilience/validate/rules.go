package validate

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	levelPattern    = regexp.MustCompile(`^(beginner|intermediate|advanced)$`)
	languagePattern = regexp.MustCompile(`^[a-z][a-z0-9+#.\-]{0,31}$`)
	integerPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// IntRange returns a Custom check accepting integers in [lo, hi].
func IntRange(field string, lo, hi int) func(string) string {
	return func(v string) string {
		n, err := strconv.Atoi(v)
		if err != nil || n < lo || n > hi {
			return fmt.Sprintf("%s must be between %d and %d", field, lo, hi)
		}
		return ""
	}
}

// MaxCodeLength bounds code submitted for explanation or debugging.
const MaxCodeLength = 20000

// ExplainRules validates code, language and level. countTokens may be nil;
// when set, code longer than maxTokens is rejected.
func ExplainRules(countTokens func(string) int, maxTokens int) Rules {
	code := Rule{Required: true, MaxLength: MaxCodeLength}
	if countTokens != nil && maxTokens > 0 {
		code.Custom = func(v string) string {
			if countTokens(v) > maxTokens {
				return fmt.Sprintf("code is too long (more than %d tokens)", maxTokens)
			}
			return ""
		}
	}
	return Rules{
		"code":     code,
		"language": {Required: true, Pattern: languagePattern, Message: "language is not supported"},
		"level":    {Required: true, Pattern: levelPattern, Message: "level must be beginner, intermediate or advanced"},
	}
}

// DebugRules validates a debugging request.
func DebugRules() Rules {
	return Rules{
		"code":        {Required: true, MaxLength: MaxCodeLength},
		"error":       {MaxLength: 5000},
		"description": {MaxLength: 2000},
	}
}

// PlanRules validates a plan generation request.
func PlanRules() Rules {
	return Rules{
		"goal":            {Required: true, MinLength: 3, MaxLength: 200},
		"experienceLevel": {Required: true, Pattern: levelPattern, Message: "experienceLevel must be beginner, intermediate or advanced"},
		"weeksAvailable":  {Required: true, Pattern: integerPattern, Custom: IntRange("weeksAvailable", 1, 52)},
		"hoursPerWeek":    {Pattern: integerPattern, Custom: IntRange("hoursPerWeek", 1, 80)},
	}
}

// ProgressRules validates a week progress update.
func ProgressRules() Rules {
	return Rules{
		"weekNumber": {Required: true, Pattern: integerPattern, Custom: IntRange("weekNumber", 1, 52)},
		"completed":  {Required: true, Pattern: regexp.MustCompile(`^(true|false)$`), Message: "completed must be true or false"},
	}
}

// LoginRules validates credentials.
func LoginRules() Rules {
	return Rules{
		"email":    {Required: true, Pattern: emailPattern, Message: "Please enter a valid email address"},
		"password": {Required: true},
	}
}

// RegisterRules validates a new account.
func RegisterRules() Rules {
	return Rules{
		"name":            {Required: true, MaxLength: 100},
		"email":           {Required: true, Pattern: emailPattern, Message: "Please enter a valid email address"},
		"password":        {Required: true, MinLength: 6, MaxLength: 128},
		"experienceLevel": {Pattern: levelPattern, Message: "experienceLevel must be beginner, intermediate or advanced"},
	}
}
