// Package control wires the codementor service together and runs it.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/codementor/internal/auth"
	"github.com/vietddude/codementor/internal/core/config"
	redisclient "github.com/vietddude/codementor/internal/infra/redis"
	"github.com/vietddude/codementor/internal/llm"
	"github.com/vietddude/codementor/internal/server"
)

var errAINotConfigured = errors.New("ai api key is not set")

// App is the service process: storage, caches, the AI client and the API.
type App struct {
	cfg         *config.AppConfig
	store       *Storage
	redisClient *redisclient.Client
	ai          *llm.Client
	server      *server.Server
	log         *slog.Logger
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	log := slog.Default()

	// 1. Auth
	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	// 2. Storage
	store, err := OpenStorage(ctx, cfg.Database, true)
	if err != nil {
		return nil, err
	}

	// 3. Optional Redis caches
	var (
		redisClient  *redisclient.Client
		planCache    server.PlanCache
		explainCache server.ExplainCache
	)
	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		planCache = redisclient.NewPlanCache(redisClient)
		explainCache = redisclient.NewExplainCache(redisClient)
		log.Info("Redis caching enabled")
	} else {
		log.Info("Redis URL not set, caching disabled")
	}

	// 4. AI
	ai := llm.NewClient(cfg.AI)
	if !ai.Configured() {
		log.Warn("AI api key not set, /api/ai routes will answer 503")
	}
	counter := llm.NewTokenCounter()

	// 5. Health checks
	checks := []server.Checker{{
		Name:  "ai",
		Check: func(context.Context) error { return aiCheck(ai) },
	}}
	if store.DB != nil {
		checks = append(checks, server.Checker{Name: "database", Critical: true, Check: store.DB.Health})
	}
	if redisClient != nil {
		checks = append(checks, server.Checker{Name: "redis", Check: redisClient.Health})
	}

	srv := server.New(cfg.Server, server.Deps{
		Users:          store.Users,
		Plans:          store.Plans,
		Tokens:         tokens,
		AI:             ai,
		PlanCache:      planCache,
		ExplainCache:   explainCache,
		CountTokens:    counter.Count,
		MaxInputTokens: cfg.AI.MaxInputTokens,
		RateLimit:      cfg.RateLimit,
		Checks:         checks,
		Logger:         log,
	})

	return &App{
		cfg:         cfg,
		store:       store,
		redisClient: redisClient,
		ai:          ai,
		server:      srv,
		log:         log,
	}, nil
}

func aiCheck(ai *llm.Client) error {
	if !ai.Configured() {
		return errAINotConfigured
	}
	return nil
}

// Handler exposes the API handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// Start DB Metrics Collector
	if a.store.DB != nil {
		a.store.DB.StartMetricsCollector(ctx)
	}

	g.Go(a.server.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Stop(shutdownCtx)
	})
	return g.Wait()
}

// Stop stops the server and releases connections.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping CodeMentor...")

	err := a.server.Stop(ctx)

	// Close Redis
	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil {
			a.log.Warn("Failed to close Redis", "error", cerr)
		}
	}
	if cerr := a.store.Close(); cerr != nil {
		a.log.Warn("Failed to close database", "error", cerr)
	}
	return err
}
