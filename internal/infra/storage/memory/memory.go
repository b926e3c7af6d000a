package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage"
)

// MemoryStorage keeps users and plans in process memory.
type MemoryStorage struct {
	users  map[string]*domain.User
	emails map[string]string
	plans  map[string]*domain.Plan
	order  []string
	mu     sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
		plans:  make(map[string]*domain.Plan),
	}
}

// -----------------------------------------------------------------------------
// User Repository
// -----------------------------------------------------------------------------

type UserRepo struct {
	store *MemoryStorage
}

func NewUserRepo(store *MemoryStorage) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, ok := r.store.emails[email]; ok {
		return storage.ErrDuplicate
	}
	u := cloneUser(user)
	r.store.users[u.ID] = u
	r.store.emails[email] = u.ID
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.emails[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(r.store.users[id]), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(u), nil
}

// -----------------------------------------------------------------------------
// Plan Repository
// -----------------------------------------------------------------------------

type PlanRepo struct {
	store *MemoryStorage
}

func NewPlanRepo(store *MemoryStorage) *PlanRepo {
	return &PlanRepo{store: store}
}

func (r *PlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.plans[plan.ID]; ok {
		return storage.ErrDuplicate
	}
	r.store.plans[plan.ID] = clonePlan(plan)
	r.store.order = append(r.store.order, plan.ID)
	return nil
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.plans[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *PlanRepo) LatestForUser(ctx context.Context, userID string) (*domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := len(r.store.order) - 1; i >= 0; i-- {
		if p := r.store.plans[r.store.order[i]]; p.UserID == userID {
			return clonePlan(p), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *PlanRepo) Update(ctx context.Context, plan *domain.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.plans[plan.ID]
	if !ok {
		return storage.ErrNotFound
	}
	updated := clonePlan(plan)
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	r.store.plans[plan.ID] = updated
	return nil
}

func (r *PlanRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Plan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domain.Plan
	for i := len(r.store.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, clonePlan(r.store.plans[r.store.order[i]]))
	}
	return out, nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.KnownLanguages = slices.Clone(u.KnownLanguages)
	return &c
}

func clonePlan(p *domain.Plan) *domain.Plan {
	c := *p
	c.Weeks = make([]domain.Week, len(p.Weeks))
	for i, w := range p.Weeks {
		w.Topics = slices.Clone(w.Topics)
		w.Resources = slices.Clone(w.Resources)
		c.Weeks[i] = w
	}
	return &c
}
