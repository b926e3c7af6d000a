package llm

import "fmt"

// PlanRequest carries the learner's answers for plan generation.
type PlanRequest struct {
	Goal            string
	ExperienceLevel string
	WeeksAvailable  int
	HoursPerWeek    int
}

func ExplainPrompt(code, language, level string) string {
	return fmt.Sprintf("You are a coding tutor. Explain this %s code to a %s developer in simple terms. "+
		"Break it down line by line if complex:\n\n%s", language, level, code)
}

func PlanPrompt(r PlanRequest) string {
	return fmt.Sprintf("Create a %d-week learning plan for a %s developer who wants to: %s. "+
		"They can study %d hours per week. Format as JSON with weeks array containing: "+
		"weekNumber, topics (array), estimatedHours.",
		r.WeeksAvailable, r.ExperienceLevel, r.Goal, r.HoursPerWeek)
}

func DebugPrompt(code, errText, description string) string {
	return fmt.Sprintf("Help debug this issue:\nCode: %s\nError: %s\nDescription: %s\n\n"+
		"Provide step-by-step debugging guidance, explain the error, and suggest how to fix it.",
		code, errText, description)
}
