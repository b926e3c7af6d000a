package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/codementor/internal/infra/kv"
)

func TestExplainDigest(t *testing.T) {
	a := ExplainDigest("x := 1", "go", "beginner")
	if len(a) != 64 {
		t.Errorf("expected 32-byte hex digest, got %q", a)
	}
	if a != ExplainDigest("x := 1", "go", "beginner") {
		t.Error("digest should be deterministic")
	}
	if a == ExplainDigest("x := 1", "go", "advanced") {
		t.Error("level should change the digest")
	}
	// Field boundaries are separated, so shifting text between fields differs.
	if ExplainDigest("b", "a", "") == ExplainDigest("", "a", "b") {
		t.Error("expected distinct digests for shifted fields")
	}
}

func TestKeyHelpers(t *testing.T) {
	if planKey("u1") != "plan:u1" || explainKey("d") != "explain:d" || storeKey("cli", "token") != "kv:cli:token" {
		t.Error("unexpected key format")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := newClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), Config{})
	defer c.Close()
	if c.cfg.PlanTTL != 24*time.Hour || c.cfg.ExplainTTL != 6*time.Hour {
		t.Errorf("unexpected defaults: %+v", c.cfg)
	}
}

var _ kv.Store = (*Store)(nil)

func TestStoreUnreachable(t *testing.T) {
	c := newClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}), Config{})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, _, err := NewStore(c, "test").Get(ctx, "k"); err == nil {
		t.Error("expected an error from an unreachable server")
	}
}
