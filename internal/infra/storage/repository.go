package storage

import (
	"context"
	"errors"

	"github.com/vietddude/codementor/internal/core/domain"
)

var (
	// ErrNotFound is returned when a user or plan doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key (user email) is already taken
	ErrDuplicate = errors.New("already exists")
)

// UserRepository handles user account storage
type UserRepository interface {
	// Create stores a new user. Email must be unique.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// PlanRepository handles learning plan storage
type PlanRepository interface {
	// Create stores a new plan
	Create(ctx context.Context, plan *domain.Plan) error

	// GetByID retrieves a plan by id
	GetByID(ctx context.Context, id string) (*domain.Plan, error)

	// LatestForUser retrieves the most recently created plan of a user
	LatestForUser(ctx context.Context, userID string) (*domain.Plan, error)

	// Update replaces the weeks and progress of an existing plan
	Update(ctx context.Context, plan *domain.Plan) error

	// ListRecent returns up to limit plans, newest first
	ListRecent(ctx context.Context, limit int) ([]*domain.Plan, error)
}
