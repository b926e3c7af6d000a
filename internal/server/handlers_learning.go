package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage"
	"github.com/vietddude/codementor/internal/resilience/validate"
)

type createPlanRequest struct {
	Goal  string        `json:"goal"`
	Weeks []domain.Week `json:"weeks"`
}

type progressRequest struct {
	WeekNumber int  `json:"weekNumber"`
	Completed  bool `json:"completed"`
}

var createPlanRules = validate.Rules{
	"goal": {Required: true, MaxLength: 200},
}

func (s *Server) handleCreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if invalid(c, validate.Validate(map[string]string{"goal": req.Goal}, createPlanRules)) {
		return
	}

	now := time.Now().UTC()
	plan := &domain.Plan{
		ID:        uuid.NewString(),
		UserID:    c.GetString(userIDKey),
		Goal:      req.Goal,
		Weeks:     normalizeWeeks(req.Weeks),
		CreatedAt: now,
		UpdatedAt: now,
	}
	plan.RecomputeProgress()

	ctx := c.Request.Context()
	if err := s.deps.Plans.Create(ctx, plan); err != nil {
		s.internal(c, "create_plan", err)
		return
	}
	s.cachePlan(ctx, plan)
	c.JSON(http.StatusCreated, plan)
}

func normalizeWeeks(weeks []domain.Week) []domain.Week {
	out := make([]domain.Week, len(weeks))
	for i, w := range weeks {
		if w.WeekNumber == 0 {
			w.WeekNumber = i + 1
		}
		if w.Topics == nil {
			w.Topics = []string{}
		}
		out[i] = w
	}
	return out
}

// handleGetPlan returns the latest plan, or null when the user has none.
func (s *Server) handleGetPlan(c *gin.Context) {
	plan, err := s.latestPlan(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		s.internal(c, "get_plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleUpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	res := validate.Validate(map[string]string{
		"weekNumber": strconv.Itoa(req.WeekNumber),
		"completed":  strconv.FormatBool(req.Completed),
	}, validate.ProgressRules())
	if invalid(c, res) {
		return
	}

	ctx := c.Request.Context()
	plan, err := s.deps.Plans.GetByID(ctx, c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		abort(c, http.StatusNotFound, msgPlanNotFound)
		return
	}
	if err != nil {
		s.internal(c, "update_progress", err)
		return
	}
	if plan.UserID != c.GetString(userIDKey) {
		abort(c, http.StatusForbidden, msgForbidden)
		return
	}

	// An unknown week leaves the plan unchanged.
	if plan.SetWeekCompleted(req.WeekNumber, req.Completed) {
		if err := s.deps.Plans.Update(ctx, plan); err != nil {
			s.internal(c, "update_progress", err)
			return
		}
		if s.deps.PlanCache != nil {
			if err := s.deps.PlanCache.Invalidate(ctx, plan.UserID); err != nil {
				s.log.Warn("Failed to invalidate plan cache", "error", err)
			}
		}
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleStats(c *gin.Context) {
	plan, err := s.latestPlan(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		s.internal(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, domain.StatsForPlan(plan))
}

// latestPlan reads through the plan cache. It returns nil without error when
// the user has no plan.
func (s *Server) latestPlan(ctx context.Context, userID string) (*domain.Plan, error) {
	if s.deps.PlanCache != nil {
		plan, err := s.deps.PlanCache.Get(ctx, userID)
		if err != nil {
			s.log.Warn("Plan cache unavailable", "error", err)
		} else if plan != nil {
			return plan, nil
		}
	}

	plan, err := s.deps.Plans.LatestForUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.cachePlan(ctx, plan)
	return plan, nil
}

func (s *Server) cachePlan(ctx context.Context, plan *domain.Plan) {
	if s.deps.PlanCache == nil {
		return
	}
	if err := s.deps.PlanCache.Set(ctx, plan); err != nil {
		s.log.Warn("Failed to cache plan", "error", err)
	}
}
