package domain

import (
	"strings"
	"time"
)

// User is a registered learner.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	ExperienceLevel  Level     `json:"experienceLevel"`
	LearningGoal     string    `json:"learningGoal,omitempty"`
	StudyTimePerWeek int       `json:"studyTimePerWeek"`
	KnownLanguages   []string  `json:"knownLanguages,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Level is a learner's experience level.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists the supported levels in ascending order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ParseLevel normalizes s, defaulting to beginner for unknown values.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l
	default:
		return LevelBeginner
	}
}

// DisplayName returns the part of an email address before '@'.
func DisplayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
