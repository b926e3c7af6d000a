package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/codementor/internal/infra/storage"
	"github.com/vietddude/codementor/internal/infra/storage/memory"
	"github.com/vietddude/codementor/internal/infra/storage/postgres"
)

// Storage bundles the repositories selected by configuration.
type Storage struct {
	Users storage.UserRepository
	Plans storage.PlanRepository
	// DB is nil in memory mode.
	DB *postgres.DB
}

// OpenStorage connects to PostgreSQL when a URL is configured and falls
// back to process memory otherwise. Migrations run when migrate is set.
func OpenStorage(ctx context.Context, cfg postgres.Config, migrate bool) (*Storage, error) {
	if cfg.URL == "" {
		store := memory.NewMemoryStorage()
		slog.Info("Using Memory storage")
		return &Storage{
			Users: memory.NewUserRepo(store),
			Plans: memory.NewPlanRepo(store),
		}, nil
	}

	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	if migrate {
		if err := postgres.Migrate(ctx, db.DB.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
	}
	slog.Info("Using PostgreSQL storage")
	return &Storage{
		Users: postgres.NewUserRepo(db),
		Plans: postgres.NewPlanRepo(db),
		DB:    db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
