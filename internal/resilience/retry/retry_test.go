package retry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/vietddude/codementor/internal/resilience/classify"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("http %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func scripted(errs ...error) (func(context.Context) (string, error), *int) {
	calls := 0
	return func(ctx context.Context) (string, error) {
		defer func() { calls++ }()
		if calls < len(errs) && errs[calls] != nil {
			return "", errs[calls]
		}
		return "ok", nil
	}, &calls
}

func TestDo_RetriesServiceUnavailable(t *testing.T) {
	rec := &recorder{}
	p := NewPolicy(DefaultConfig, WithSleeper(rec.sleep))
	fn, calls := scripted(statusErr(503), statusErr(503))

	got, err := Do(context.Background(), p, fn)
	if err != nil || got != "ok" {
		t.Fatalf("expected success, got %q, %v", got, err)
	}
	if *calls != 3 {
		t.Errorf("expected 3 attempts, got %d", *calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if !reflect.DeepEqual(rec.delays, want) {
		t.Errorf("delays = %v, want %v", rec.delays, want)
	}
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	rec := &recorder{}
	p := NewPolicy(DefaultConfig, WithSleeper(rec.sleep))
	fn, calls := scripted(statusErr(400), statusErr(400))

	_, err := Do(context.Background(), p, fn)
	if !errors.Is(err, statusErr(400)) {
		t.Fatalf("expected 400 error, got %v", err)
	}
	if *calls != 1 {
		t.Errorf("expected 1 attempt, got %d", *calls)
	}
	if len(rec.delays) != 0 {
		t.Errorf("expected no delay, got %v", rec.delays)
	}
}

func TestDo_ExhaustedReturnsLastFailure(t *testing.T) {
	rec := &recorder{}
	p := NewPolicy(Config{MaxRetries: 4, BaseDelay: 10 * time.Millisecond}, WithSleeper(rec.sleep))
	fn, calls := scripted(statusErr(500), statusErr(502), statusErr(503), statusErr(504))

	_, err := Do(context.Background(), p, fn)
	if !errors.Is(err, statusErr(504)) {
		t.Fatalf("expected last failure, got %v", err)
	}
	if *calls != 4 {
		t.Errorf("expected 4 attempts, got %d", *calls)
	}
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	if !reflect.DeepEqual(rec.delays, want) {
		t.Errorf("delays = %v, want %v", rec.delays, want)
	}
	if c := classify.Classify(err); c.Category != classify.ServiceUnavailable {
		t.Errorf("exhausted error should still classify, got %s", c.Category)
	}
}

func TestDo_SingleAttempt(t *testing.T) {
	rec := &recorder{}
	p := NewPolicy(Config{MaxRetries: 1, BaseDelay: time.Second}, WithSleeper(rec.sleep))
	fn, calls := scripted(statusErr(503))

	if _, err := Do(context.Background(), p, fn); err == nil {
		t.Fatal("expected error")
	}
	if *calls != 1 || len(rec.delays) != 0 {
		t.Errorf("calls=%d delays=%v", *calls, rec.delays)
	}
}

func TestDo_OnRetryHook(t *testing.T) {
	var attempts []int
	var categories []classify.Category
	p := NewPolicy(DefaultConfig,
		WithSleeper(func(context.Context, time.Duration) error { return nil }),
		WithOnRetry(func(attempt int, _ time.Duration, cause *classify.Error) {
			attempts = append(attempts, attempt)
			categories = append(categories, cause.Category)
		}),
	)
	fn, _ := scripted(statusErr(429))

	if _, err := Do(context.Background(), p, fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(attempts, []int{2}) || categories[0] != classify.RateLimit {
		t.Errorf("attempts=%v categories=%v", attempts, categories)
	}
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	p := NewPolicy(Config{MaxRetries: 3, BaseDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(context.Context) (string, error) {
		cancel()
		return "", statusErr(503)
	}

	start := time.Now()
	_, err := Do(ctx, p, fn)
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled call should not wait for the backoff timer")
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
