// Package server exposes the codementor HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/codementor/internal/auth"
	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage"
	"github.com/vietddude/codementor/internal/llm"
)

// Config holds HTTP server settings.
type Config struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// AIService is the language model backend used by the /api/ai routes.
type AIService interface {
	Configured() bool
	Explain(ctx context.Context, code, language, level string) (string, error)
	Debug(ctx context.Context, code, errText, description string) (string, error)
	GeneratePlan(ctx context.Context, req llm.PlanRequest) (*llm.PlanDraft, error)
}

// PlanCache keeps each user's latest plan.
type PlanCache interface {
	Get(ctx context.Context, userID string) (*domain.Plan, error)
	Set(ctx context.Context, plan *domain.Plan) error
	Invalidate(ctx context.Context, userID string) error
}

// ExplainCache keeps explanations by their inputs.
type ExplainCache interface {
	Get(ctx context.Context, code, language, level string) (string, bool, error)
	Set(ctx context.Context, code, language, level, explanation string) error
}

// Deps are the collaborators of the API. Caches and checks are optional.
type Deps struct {
	Users          storage.UserRepository
	Plans          storage.PlanRepository
	Tokens         *auth.TokenManager
	AI             AIService
	PlanCache      PlanCache
	ExplainCache   ExplainCache
	CountTokens    func(string) int
	MaxInputTokens int
	RateLimit      RateLimitConfig
	Checks         []Checker
	Logger         *slog.Logger
}

// Server provides the HTTP API, health endpoints and metrics.
type Server struct {
	deps   Deps
	engine *gin.Engine
	server *http.Server
	log    *slog.Logger
}

// New creates a new API server.
func New(cfg Config, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "server")

	s := &Server{deps: deps, engine: gin.New(), log: log}
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(recovery(s.log), requestID(), accessLog(s.log), observe())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "CodeMentor AI API is running"})
	})
	r.GET("/health", s.handleHealth)
	r.GET("/health/detailed", s.handleDetailed)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", newRateLimiter(s.deps.RateLimit).middleware())

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.GET("/me", requireAuth(s.deps.Tokens), s.handleMe)

	learning := api.Group("/learning", requireAuth(s.deps.Tokens))
	learning.POST("/plan", s.handleCreatePlan)
	learning.GET("/plan", s.handleGetPlan)
	learning.PATCH("/plan/:id/progress", s.handleUpdateProgress)
	learning.GET("/stats", s.handleStats)

	ai := api.Group("/ai", requireAuth(s.deps.Tokens))
	ai.POST("/explain", s.handleExplain)
	ai.POST("/generate-plan", s.handleGeneratePlan)
	ai.POST("/debug", s.handleDebug)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start starts the HTTP server. It returns nil after Stop.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
