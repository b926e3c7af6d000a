package domain

// Stats summarizes a learner's activity for the dashboard.
type Stats struct {
	TotalHours      int `json:"totalHours"`
	TopicsCompleted int `json:"topicsCompleted"`
	CurrentStreak   int `json:"currentStreak"`
}

// StatsForPlan derives stats from a stored plan. A nil plan yields zeros.
// The streak counts consecutive completed weeks from the first week.
func StatsForPlan(p *Plan) Stats {
	var s Stats
	if p == nil {
		return s
	}
	streak := true
	for _, w := range p.Weeks {
		s.TotalHours += w.EstimatedHours
		if w.Completed {
			s.TopicsCompleted++
			if streak {
				s.CurrentStreak++
			}
		} else {
			streak = false
		}
	}
	return s
}
