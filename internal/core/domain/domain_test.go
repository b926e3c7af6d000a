package domain

import "testing"

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{3, 10, 30},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{8, 8, 100},
	}
	for _, tt := range tests {
		if got := ProgressPercent(tt.completed, tt.total); got != tt.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestStatsForPlan(t *testing.T) {
	p := &Plan{Weeks: []Week{
		{WeekNumber: 1, EstimatedHours: 4, Completed: true},
		{WeekNumber: 2, EstimatedHours: 5, Completed: true},
		{WeekNumber: 3, EstimatedHours: 3},
		{WeekNumber: 4, EstimatedHours: 6, Completed: true},
	}}
	s := StatsForPlan(p)
	if s.TotalHours != 18 || s.TopicsCompleted != 3 || s.CurrentStreak != 2 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if got := StatsForPlan(nil); got != (Stats{}) {
		t.Errorf("expected zero stats for nil plan, got %+v", got)
	}
}

func TestSetWeekCompleted(t *testing.T) {
	p := &Plan{Weeks: []Week{{WeekNumber: 1}, {WeekNumber: 2}}}
	if !p.SetWeekCompleted(2, true) {
		t.Fatal("expected week 2 to exist")
	}
	if p.Progress != 50 {
		t.Errorf("expected progress 50, got %d", p.Progress)
	}
	if p.SetWeekCompleted(9, true) {
		t.Error("expected missing week to report false")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel(" Advanced ") != LevelAdvanced {
		t.Error("expected advanced")
	}
	if ParseLevel("guru") != LevelBeginner {
		t.Error("expected unknown level to default to beginner")
	}
	if DisplayName("ada@example.com") != "ada" {
		t.Error("expected local part of email")
	}
}
