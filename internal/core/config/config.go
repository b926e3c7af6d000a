package config

import (
	"github.com/vietddude/codementor/internal/auth"
	"github.com/vietddude/codementor/internal/client"
	redisclient "github.com/vietddude/codementor/internal/infra/redis"
	"github.com/vietddude/codementor/internal/infra/storage/postgres"
	"github.com/vietddude/codementor/internal/llm"
	"github.com/vietddude/codementor/internal/server"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    server.Config          `yaml:"server"`
	Database  postgres.Config        `yaml:"database"`
	Redis     redisclient.Config     `yaml:"redis"`
	Logging   LoggingConfig          `yaml:"logging"`
	Auth      auth.Config            `yaml:"auth"`
	AI        llm.Config             `yaml:"ai"`
	RateLimit server.RateLimitConfig `yaml:"rate_limit"`
	Client    client.Config          `yaml:"client"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level"`  // debug, info, warn, error
	Format     string `yaml:"format"` // json, text
	File       string `yaml:"file"`   // rotate into this file instead of stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}
