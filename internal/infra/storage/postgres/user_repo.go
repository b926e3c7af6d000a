package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage"
)

// UserRepo implements storage.UserRepository using PostgreSQL.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new PostgreSQL user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

type userRow struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Email            string         `db:"email"`
	PasswordHash     string         `db:"password_hash"`
	ExperienceLevel  string         `db:"experience_level"`
	LearningGoal     string         `db:"learning_goal"`
	StudyTimePerWeek int            `db:"study_time_per_week"`
	KnownLanguages   pq.StringArray `db:"known_languages"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		ExperienceLevel:  domain.ParseLevel(r.ExperienceLevel),
		LearningGoal:     r.LearningGoal,
		StudyTimePerWeek: r.StudyTimePerWeek,
		KnownLanguages:   []string(r.KnownLanguages),
		CreatedAt:        r.CreatedAt,
	}
}

const userColumns = `id, name, email, password_hash, experience_level, learning_goal,
	study_time_per_week, known_languages, created_at`

// Create saves a user to the database.
func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	langs := pq.StringArray(user.KnownLanguages)
	if langs == nil {
		langs = pq.StringArray{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash,
		string(user.ExperienceLevel), user.LearningGoal, user.StudyTimePerWeek,
		langs, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return row.toDomain(), nil
}
