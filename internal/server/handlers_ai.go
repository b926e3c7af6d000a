package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/llm"
	"github.com/vietddude/codementor/internal/resilience/validate"
)

type explainRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Level    string `json:"level"`
}

type debugRequest struct {
	Code        string `json:"code"`
	Error       string `json:"error"`
	Description string `json:"description"`
}

type generatePlanRequest struct {
	Goal            string `json:"goal"`
	ExperienceLevel string `json:"experienceLevel"`
	WeeksAvailable  int    `json:"weeksAvailable"`
	HoursPerWeek    int    `json:"hoursPerWeek"`
}

// aiReady rejects the request when no model is configured.
func (s *Server) aiReady(c *gin.Context) bool {
	if s.deps.AI == nil || !s.deps.AI.Configured() {
		abort(c, http.StatusServiceUnavailable, msgAINotConfigured)
		return false
	}
	return true
}

func (s *Server) handleExplain(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	rules := validate.ExplainRules(s.deps.CountTokens, s.deps.MaxInputTokens)
	res := validate.Validate(map[string]string{
		"code":     req.Code,
		"language": req.Language,
		"level":    req.Level,
	}, rules)
	if invalid(c, res) || !s.aiReady(c) {
		return
	}

	ctx := c.Request.Context()
	if s.deps.ExplainCache != nil {
		if text, ok, err := s.deps.ExplainCache.Get(ctx, req.Code, req.Language, req.Level); err != nil {
			s.log.Warn("Explanation cache unavailable", "error", err)
		} else if ok {
			c.JSON(http.StatusOK, gin.H{"explanation": text})
			return
		}
	}

	text, err := s.deps.AI.Explain(ctx, req.Code, req.Language, req.Level)
	if err != nil {
		s.upstream(c, "explain", err)
		return
	}
	if s.deps.ExplainCache != nil {
		if err := s.deps.ExplainCache.Set(ctx, req.Code, req.Language, req.Level, text); err != nil {
			s.log.Warn("Failed to cache explanation", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"explanation": text})
}

func (s *Server) handleGeneratePlan(c *gin.Context) {
	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	payload := map[string]string{
		"goal":            req.Goal,
		"experienceLevel": req.ExperienceLevel,
		"weeksAvailable":  strconv.Itoa(req.WeeksAvailable),
	}
	if req.HoursPerWeek != 0 {
		payload["hoursPerWeek"] = strconv.Itoa(req.HoursPerWeek)
	}
	if invalid(c, validate.Validate(payload, validate.PlanRules())) || !s.aiReady(c) {
		return
	}

	ctx := c.Request.Context()
	hours := req.HoursPerWeek
	if hours == 0 {
		hours = defaultStudyTime
		if user, err := s.deps.Users.GetByID(ctx, c.GetString(userIDKey)); err == nil && user.StudyTimePerWeek > 0 {
			hours = user.StudyTimePerWeek
		}
	}

	draft, err := s.deps.AI.GeneratePlan(ctx, llm.PlanRequest{
		Goal:            req.Goal,
		ExperienceLevel: string(domain.ParseLevel(req.ExperienceLevel)),
		WeeksAvailable:  req.WeeksAvailable,
		HoursPerWeek:    hours,
	})
	if err != nil {
		s.upstream(c, "generate_plan", err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (s *Server) handleDebug(c *gin.Context) {
	var req debugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	res := validate.Validate(map[string]string{
		"code":        req.Code,
		"error":       req.Error,
		"description": req.Description,
	}, validate.DebugRules())
	if invalid(c, res) || !s.aiReady(c) {
		return
	}

	guidance, err := s.deps.AI.Debug(c.Request.Context(), req.Code, req.Error, req.Description)
	if err != nil {
		s.upstream(c, "debug", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guidance": guidance})
}
