// Package retry runs idempotent operations with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/vietddude/codementor/internal/resilience/classify"
)

// Config defines retry behavior. MaxRetries is the total number of attempts.
type Config struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// DefaultConfig provides the client defaults: three attempts, 1s then 2s apart.
var DefaultConfig = Config{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryFunc is notified before each delayed attempt.
type RetryFunc func(attempt int, delay time.Duration, cause *classify.Error)

// Policy applies Config to operations. A Policy is safe for concurrent use;
// all per-call state lives in Do.
type Policy struct {
	cfg     Config
	sleep   Sleeper
	onRetry RetryFunc
}

// Option customizes a Policy.
type Option func(*Policy)

// WithSleeper replaces the timer-based sleep, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(p *Policy) { p.sleep = s }
}

// WithOnRetry registers a hook called before every retry.
func WithOnRetry(fn RetryFunc) Option {
	return func(p *Policy) { p.onRetry = fn }
}

// NewPolicy creates a Policy. Non-positive values fall back to DefaultConfig.
func NewPolicy(cfg Config, opts ...Option) *Policy {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig.MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultConfig.BaseDelay
	}
	p := &Policy{cfg: cfg, sleep: Sleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the effective configuration.
func (p *Policy) Config() Config { return p.cfg }

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts are used up. The delay before attempt i (i >= 2) is
// BaseDelay * 2^(i-2).
func Do[T any](ctx context.Context, p *Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	backoff := goretry.WithMaxRetries(
		uint64(p.cfg.MaxRetries-1),
		goretry.NewExponential(p.cfg.BaseDelay),
	)

	var lastErr error
	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, err
		}

		cause := classify.Classify(err)
		if !cause.Retryable {
			return zero, err // Stop immediately, do not retry
		}

		delay, stop := backoff.Next()
		if stop {
			break
		}

		if p.onRetry != nil {
			p.onRetry(attempt+1, delay, cause)
		}
		if err := p.sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", p.cfg.MaxRetries, lastErr)
}

// Sleep waits on a timer that is released when ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
