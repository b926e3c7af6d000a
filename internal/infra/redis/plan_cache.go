package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/metrics"
)

// PlanCache keeps each user's latest plan.
type PlanCache struct {
	c *Client
}

// NewPlanCache creates a Redis-backed plan cache.
func NewPlanCache(c *Client) *PlanCache {
	return &PlanCache{c: c}
}

// Get returns the cached plan for userID, or nil when there is none.
func (p *PlanCache) Get(ctx context.Context, userID string) (*domain.Plan, error) {
	data, err := p.c.rdb.Get(ctx, planKey(userID)).Bytes()
	if err == redis.Nil {
		metrics.CacheLookups.WithLabelValues("plan", "miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get failed: %w", err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		// Stale format, drop it
		p.c.rdb.Del(ctx, planKey(userID))
		return nil, nil
	}
	metrics.CacheLookups.WithLabelValues("plan", "hit").Inc()
	return &plan, nil
}

// Set stores plan under its owner.
func (p *PlanCache) Set(ctx context.Context, plan *domain.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := p.c.rdb.Set(ctx, planKey(plan.UserID), data, p.c.cfg.PlanTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache plan: %w", err)
	}
	return nil
}

// Invalidate drops the cached plan for userID.
func (p *PlanCache) Invalidate(ctx context.Context, userID string) error {
	return p.c.rdb.Del(ctx, planKey(userID)).Err()
}
