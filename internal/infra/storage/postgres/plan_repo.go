package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage"
)

// PlanRepo implements storage.PlanRepository using PostgreSQL.
type PlanRepo struct {
	db  *DB
	now func() time.Time
}

// NewPlanRepo creates a new PostgreSQL plan repository.
func NewPlanRepo(db *DB) *PlanRepo {
	return &PlanRepo{db: db, now: time.Now}
}

// weeks maps the jsonb column.
type weeks []domain.Week

func (w weeks) Value() (driver.Value, error) {
	if w == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]domain.Week(w))
}

func (w *weeks) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*w = weeks{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported weeks column type %T", src)
	}
	return json.Unmarshal(data, (*[]domain.Week)(w))
}

type planRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Goal      string    `db:"goal"`
	Weeks     weeks     `db:"weeks"`
	Progress  int       `db:"progress"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r planRow) toDomain() *domain.Plan {
	return &domain.Plan{
		ID:        r.ID,
		UserID:    r.UserID,
		Goal:      r.Goal,
		Weeks:     []domain.Week(r.Weeks),
		Progress:  r.Progress,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const planColumns = `id, user_id, goal, weeks, progress, created_at, updated_at`

// Create saves a plan.
func (r *PlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = r.now().UTC()
	}
	plan.UpdatedAt = plan.CreatedAt
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learning_plans (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		plan.ID, plan.UserID, plan.Goal, weeks(plan.Weeks), plan.Progress,
		plan.CreatedAt, plan.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan by id.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return r.get(ctx, `SELECT `+planColumns+` FROM learning_plans WHERE id = $1`, id)
}

// LatestForUser retrieves the newest plan of a user.
func (r *PlanRepo) LatestForUser(ctx context.Context, userID string) (*domain.Plan, error) {
	return r.get(ctx, `
		SELECT `+planColumns+` FROM learning_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID)
}

// Update stores new weeks and progress for an existing plan.
func (r *PlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	plan.UpdatedAt = r.now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE learning_plans
		SET weeks = $2, progress = $3, updated_at = $4
		WHERE id = $1`,
		plan.ID, weeks(plan.Weeks), plan.Progress, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListRecent returns the newest plans across all users.
func (r *PlanRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Plan, error) {
	var rows []planRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+planColumns+` FROM learning_plans
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	plans := make([]*domain.Plan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, row.toDomain())
	}
	return plans, nil
}

func (r *PlanRepo) get(ctx context.Context, query string, arg any) (*domain.Plan, error) {
	var row planRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return row.toDomain(), nil
}
