package validate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func fieldRules(n int) Rules {
	rules := make(Rules, n)
	for i := 0; i < n; i++ {
		rules[fieldName(i)] = Rule{Required: true, MinLength: 1, MaxLength: 64}
	}
	return rules
}

func fieldName(i int) string {
	return "field" + string(rune('a'+i))
}

func TestValidateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("fully valid input is valid with no errors", prop.ForAll(
		func(values []string) bool {
			in := make(map[string]string, len(values))
			for i, v := range values {
				in[fieldName(i)] = "x" + v
			}
			res := Validate(in, fieldRules(len(values)))
			return res.Valid && len(res.FieldErrors) == 0
		},
		gen.SliceOfN(8, gen.AlphaString().Map(func(s string) string {
			if len(s) > 40 {
				return s[:40]
			}
			return s
		})),
	))

	properties.Property("blank required fields are exactly the reported fields", prop.ForAll(
		func(blank []bool) bool {
			in := make(map[string]string, len(blank))
			want := make(map[string]string)
			for i, b := range blank {
				name := fieldName(i)
				if b {
					in[name] = strings.Repeat(" ", i)
					want[name] = name + " is required"
				} else {
					in[name] = "ok"
				}
			}
			res := Validate(in, fieldRules(len(blank)))
			return reflect.DeepEqual(res.FieldErrors, want) && res.Valid == (len(want) == 0)
		},
		gen.SliceOfN(10, gen.Bool()),
	))

	properties.Property("validation is idempotent", prop.ForAll(
		func(goal, level, weeks string) bool {
			in := map[string]string{"goal": goal, "experienceLevel": level, "weeksAvailable": weeks}
			return reflect.DeepEqual(Validate(in, PlanRules()), Validate(in, PlanRules()))
		},
		gen.AnyString(),
		gen.OneConstOf("beginner", "advanced", "guru", ""),
		gen.NumString(),
	))

	properties.TestingRun(t)
}
