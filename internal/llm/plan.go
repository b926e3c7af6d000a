package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vietddude/codementor/internal/core/domain"
)

// PlanDraft is the week list a model produced, before it is saved.
type PlanDraft struct {
	Weeks []domain.Week `json:"weeks"`
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

const planSchemaJSON = `{
  "type": "object",
  "required": ["weeks"],
  "properties": {
    "weeks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["weekNumber", "topics"],
        "properties": {
          "weekNumber": {"type": "integer", "minimum": 1},
          "topics": {"type": "array", "items": {"type": "string"}},
          "estimatedHours": {"type": "number", "minimum": 0},
          "completed": {"type": "boolean"}
        }
      }
    }
  }
}`

var planSchema = mustCompilePlanSchema()

func mustCompilePlanSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("plan.json", strings.NewReader(planSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile("plan.json")
}

// ExtractPlan pulls the outermost JSON object out of a completion. Text
// without any object yields an empty plan.
func ExtractPlan(text string) (*PlanDraft, error) {
	match := jsonObject.FindString(text)
	if match == "" {
		return &PlanDraft{Weeks: []domain.Week{}}, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(match), &doc); err != nil {
		return nil, &APIError{Status: 502, Message: "AI returned malformed plan JSON"}
	}
	if err := planSchema.Validate(doc); err != nil {
		return nil, &APIError{Status: 502, Message: fmt.Sprintf("AI plan does not match schema: %v", err)}
	}

	var raw struct {
		Weeks []struct {
			WeekNumber     int      `json:"weekNumber"`
			Topics         []string `json:"topics"`
			EstimatedHours float64  `json:"estimatedHours"`
			Completed      bool     `json:"completed"`
		} `json:"weeks"`
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, &APIError{Status: 502, Message: "AI returned malformed plan JSON"}
	}

	draft := &PlanDraft{Weeks: make([]domain.Week, 0, len(raw.Weeks))}
	for _, w := range raw.Weeks {
		topics := w.Topics
		if topics == nil {
			topics = []string{}
		}
		draft.Weeks = append(draft.Weeks, domain.Week{
			WeekNumber:     w.WeekNumber,
			Topics:         topics,
			EstimatedHours: int(w.EstimatedHours + 0.5),
			Completed:      w.Completed,
		})
	}
	return draft, nil
}
