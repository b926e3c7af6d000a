package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps Redis operations for the API caches and the shared key-value store.
type Client struct {
	rdb *redis.Client
	cfg Config
}

// Config holds Redis connection configuration.
type Config struct {
	URL        string        `yaml:"url"`
	Password   string        `yaml:"password"`
	PlanTTL    time.Duration `yaml:"plan_ttl"`
	ExplainTTL time.Duration `yaml:"explain_ttl"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newClient(rdb, cfg), nil
}

func newClient(rdb *redis.Client, cfg Config) *Client {
	if cfg.PlanTTL <= 0 {
		cfg.PlanTTL = 24 * time.Hour
	}
	if cfg.ExplainTTL <= 0 {
		cfg.ExplainTTL = 6 * time.Hour
	}
	return &Client{rdb: rdb, cfg: cfg}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key helpers
func planKey(userID string) string {
	return fmt.Sprintf("plan:%s", userID)
}

func explainKey(digest string) string {
	return fmt.Sprintf("explain:%s", digest)
}

func storeKey(namespace, key string) string {
	return fmt.Sprintf("kv:%s:%s", namespace, key)
}
