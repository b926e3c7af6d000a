package redis

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/blake3"

	"github.com/vietddude/codementor/internal/metrics"
)

// ExplainCache stores explanations keyed by a digest of their inputs.
type ExplainCache struct {
	c *Client
}

// NewExplainCache creates a Redis-backed explanation cache.
func NewExplainCache(c *Client) *ExplainCache {
	return &ExplainCache{c: c}
}

// ExplainDigest hashes the inputs of an explanation request.
func ExplainDigest(code, language, level string) string {
	h := blake3.New()
	for _, part := range []string{language, level, code} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached explanation and whether it was found.
func (e *ExplainCache) Get(ctx context.Context, code, language, level string) (string, bool, error) {
	val, err := e.c.rdb.Get(ctx, explainKey(ExplainDigest(code, language, level))).Result()
	if err == redis.Nil {
		metrics.CacheLookups.WithLabelValues("explain", "miss").Inc()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get failed: %w", err)
	}
	metrics.CacheLookups.WithLabelValues("explain", "hit").Inc()
	return val, true, nil
}

// Set stores an explanation.
func (e *ExplainCache) Set(ctx context.Context, code, language, level, explanation string) error {
	key := explainKey(ExplainDigest(code, language, level))
	return e.c.rdb.Set(ctx, key, explanation, e.c.cfg.ExplainTTL).Err()
}
