// Package orchestrator composes validation, retry, classification and
// fallback into one call that always yields data, an error, or both.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/metrics"
	"github.com/vietddude/codementor/internal/resilience/classify"
	"github.com/vietddude/codementor/internal/resilience/retry"
	"github.com/vietddude/codementor/internal/resilience/validate"
)

// Source tells where a result's data came from.
type Source string

const (
	Remote   Source = "remote"
	Fallback Source = "fallback"
)

// ErrOffline is the failure recorded when the connectivity check fails.
var ErrOffline = fmt.Errorf("device is offline: %w", classify.ErrUnreachable)

// Descriptor describes one call.
type Descriptor struct {
	Operation  domain.Operation
	Payload    map[string]string
	Idempotent bool
	// Timeout bounds each remote attempt. Zero means no per-attempt bound.
	Timeout time.Duration
}

// Result is the terminal value of Execute. Err is set for error-only results
// and for fallback results produced after a failed remote call.
type Result[T any] struct {
	Source Source
	Data   T
	Err    *classify.Error
}

// HasData reports whether Data holds a usable value.
func (r Result[T]) HasData() bool {
	return r.Err == nil || r.Source == Fallback
}

// IsFallback reports whether Data was synthesized locally.
func (r Result[T]) IsFallback() bool {
	return r.Source == Fallback
}

// Orchestrator holds immutable settings shared by calls.
type Orchestrator struct {
	retryCfg retry.Config
	sleep    retry.Sleeper
	online   func(context.Context) bool
	log      *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRetryConfig sets attempts and base delay for idempotent calls.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *Orchestrator) { o.retryCfg = cfg }
}

// WithSleeper replaces the backoff timer.
func WithSleeper(s retry.Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = s }
}

// WithConnectivity installs the online check consulted before remote calls.
// It receives the caller's context.
func WithConnectivity(online func(context.Context) bool) Option {
	return func(o *Orchestrator) { o.online = online }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		retryCfg: retry.DefaultConfig,
		sleep:    retry.Sleep,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute validates d.Payload against rules, runs remote (under the retry
// policy when d.Idempotent), and on failure substitutes fallback when one is
// given. Validation failures never reach the network and never fall back,
// and neither does a call whose ctx was cancelled.
func Execute[T any](
	ctx context.Context,
	o *Orchestrator,
	d Descriptor,
	remote func(context.Context) (T, error),
	rules validate.Rules,
	fallback func() T,
) Result[T] {
	if res := validate.Validate(d.Payload, rules); !res.Valid {
		cause := classify.Validation(res.FieldErrors)
		o.observe(d, Remote, cause)
		return Result[T]{Source: Remote, Err: cause}
	}

	data, err := attempt(ctx, o, d, remote)
	if err == nil {
		o.observe(d, Remote, nil)
		return Result[T]{Source: Remote, Data: data}
	}

	cause := classify.Classify(err)
	// An abandoned call gets no substitute data, so callers persist nothing.
	if ctx.Err() != nil {
		o.log.Info("Remote call abandoned", "operation", d.Operation, "error", err)
		o.observe(d, Remote, cause)
		return Result[T]{Source: Remote, Err: cause}
	}
	if fallback != nil {
		o.log.Warn("Remote call failed, using fallback",
			"operation", d.Operation, "category", cause.Category, "status", cause.Status, "error", err)
		o.observe(d, Fallback, cause)
		return Result[T]{Source: Fallback, Data: fallback(), Err: cause}
	}

	o.log.Error("Remote call failed", "operation", d.Operation, "category", cause.Category, "error", err)
	o.observe(d, Remote, cause)
	return Result[T]{Source: Remote, Err: cause}
}

func attempt[T any](ctx context.Context, o *Orchestrator, d Descriptor, remote func(context.Context) (T, error)) (T, error) {
	if o.online != nil && !o.online(ctx) {
		var zero T
		return zero, ErrOffline
	}

	call := func(ctx context.Context) (T, error) {
		if d.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.Timeout)
			defer cancel()
		}
		start := time.Now()
		v, err := remote(ctx)
		metrics.RemoteLatency.WithLabelValues(string(d.Operation)).Observe(time.Since(start).Seconds())
		return v, err
	}

	if !d.Idempotent {
		return call(ctx)
	}

	policy := retry.NewPolicy(o.retryCfg,
		retry.WithSleeper(o.sleep),
		retry.WithOnRetry(func(n int, delay time.Duration, cause *classify.Error) {
			metrics.OperationRetries.WithLabelValues(string(d.Operation), string(cause.Category)).Inc()
			o.log.Warn("Retrying remote call",
				"operation", d.Operation, "attempt", n, "delay", delay, "category", cause.Category)
		}),
	)
	return retry.Do(ctx, policy, call)
}

func (o *Orchestrator) observe(d Descriptor, src Source, cause *classify.Error) {
	category := "none"
	if cause != nil {
		category = string(cause.Category)
	}
	metrics.OperationResults.WithLabelValues(string(d.Operation), string(src), category).Inc()
}
