package domain

import "time"

// Plan is a week-by-week learning plan owned by a user.
type Plan struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Goal      string    `json:"goal"`
	Weeks     []Week    `json:"weeks"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Week is one entry of a plan.
type Week struct {
	WeekNumber     int        `json:"weekNumber"`
	Topics         []string   `json:"topics"`
	Resources      []Resource `json:"resources,omitempty"`
	EstimatedHours int        `json:"estimatedHours"`
	Completed      bool       `json:"completed"`
}

// Resource is a study link attached to a week.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// CompletedWeeks counts weeks marked completed.
func (p *Plan) CompletedWeeks() int {
	n := 0
	for _, w := range p.Weeks {
		if w.Completed {
			n++
		}
	}
	return n
}

// ProgressPercent returns round(completed/total*100), 0 for an empty plan.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (completed*200 + total) / (total * 2)
}

// RecomputeProgress refreshes Progress from the week flags.
func (p *Plan) RecomputeProgress() {
	p.Progress = ProgressPercent(p.CompletedWeeks(), len(p.Weeks))
}

// SetWeekCompleted flips the completed flag of weekNumber. It reports false
// when the plan has no such week.
func (p *Plan) SetWeekCompleted(weekNumber int, completed bool) bool {
	for i := range p.Weeks {
		if p.Weeks[i].WeekNumber == weekNumber {
			p.Weeks[i].Completed = completed
			p.RecomputeProgress()
			return true
		}
	}
	return false
}
