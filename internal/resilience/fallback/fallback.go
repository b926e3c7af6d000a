// Package fallback synthesizes local substitutes for AI-backed operations
// when the backend cannot be reached.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/codementor/internal/core/domain"
)

// DemoNotice is appended to locally generated explanations.
const DemoNotice = "\n\n---\n*Demo Mode: Using AI-simulated explanation*"

// topicsPerWeek is how many pool entries each week consumes.
const topicsPerWeek = 2

// Generator produces fallback data from an injected random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a Generator. A nil source is seeded from the clock.
func New(src rand.Source) *Generator {
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1|1)
	}
	return &Generator{rng: rand.New(src), now: time.Now}
}

// NewSeeded creates a reproducible Generator.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// intIn returns a random integer in [lo, hi].
func (g *Generator) intIn(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.IntN(hi-lo+1)
}

// ExplainCode returns the templated explanation for level, falling back to
// the beginner template for unknown levels.
func (g *Generator) ExplainCode(code, language string, level domain.Level) string {
	tmpl, ok := explanations[level]
	if !ok {
		tmpl = explanations[domain.LevelBeginner]
	}
	if strings.TrimSpace(language) == "" {
		language = "this"
	}
	return strings.ReplaceAll(tmpl, "{language}", language) + DemoNotice
}

// GeneratePlan builds a plan of weeks entries from the level's topic pool.
// Week i takes pool[2i:2i+2]; once the pool is used up later weeks have no
// topics. The first floor(weeks*0.3) weeks are marked completed.
func (g *Generator) GeneratePlan(goal string, level domain.Level, weeks int) *domain.Plan {
	if weeks < 0 {
		weeks = 0
	}
	pool, ok := topicPools[level]
	if !ok {
		pool = topicPools[domain.LevelBeginner]
	}

	completed := weeks * 3 / 10
	plan := &domain.Plan{
		Goal:      goal,
		Weeks:     make([]domain.Week, 0, weeks),
		CreatedAt: g.now(),
	}
	for i := 0; i < weeks; i++ {
		plan.Weeks = append(plan.Weeks, domain.Week{
			WeekNumber:     i + 1,
			Topics:         slicePool(pool, i*topicsPerWeek, i*topicsPerWeek+topicsPerWeek),
			EstimatedHours: g.intIn(3, 7),
			Completed:      i < completed,
		})
	}
	plan.UpdatedAt = plan.CreatedAt
	plan.Progress = domain.ProgressPercent(completed, weeks)
	return plan
}

func slicePool(pool []string, from, to int) []string {
	topics := []string{}
	if from >= len(pool) {
		return topics
	}
	if to > len(pool) {
		to = len(pool)
	}
	for _, t := range pool[from:to] {
		if t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// ComputeStats returns cosmetic dashboard numbers.
func (g *Generator) ComputeStats() domain.Stats {
	return domain.Stats{
		TotalHours:      g.intIn(10, 59),
		TopicsCompleted: g.intIn(5, 24),
		CurrentStreak:   g.intIn(1, 15),
	}
}

// DemoSession returns the token and user used when authentication cannot
// reach the backend.
func (g *Generator) DemoSession(email, name string, level domain.Level) (string, *domain.User) {
	if strings.TrimSpace(name) == "" {
		name = domain.DisplayName(email)
	}
	if level == "" {
		level = domain.LevelBeginner
	}
	user := &domain.User{
		Name:            name,
		Email:           email,
		ExperienceLevel: level,
		CreatedAt:       g.now(),
	}
	return fmt.Sprintf("demo-token-%d", g.now().UnixMilli()), user
}
