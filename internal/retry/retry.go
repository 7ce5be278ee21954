// Package retry wraps operations with classification-driven exponential
// backoff. Authentication calls and metadata fetches share the same
// executor and the same classification rules, so transient conditions are
// retried uniformly across the pipeline.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Config is the retry policy for one operation type. Immutable; built
// from pipeline configuration.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// Multiplier grows the delay per retry.
	Multiplier float64

	// MaxBackoff caps the delay.
	MaxBackoff time.Duration
}

// DefaultConfig matches the pipeline-wide defaults used when an operation
// type has no explicit policy configured.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		Multiplier:     2.0,
		MaxBackoff:     30 * time.Second,
	}
}

// Result is the outcome of a retried operation.
type Result[T any] struct {
	// Success reports whether any attempt succeeded.
	Success bool

	// Value is the successful attempt's result.
	Value T

	// Attempts is the total number of attempts made, including the
	// first one.
	Attempts int

	// Err is the last attempt's error when Success is false.
	Err error
}

// StatusExtractor pulls an HTTP-like status code out of an operation
// error. Different HTTP clients expose the code differently, so call
// sites may supply their own extractor.
type StatusExtractor func(err error) (code int, ok bool)

type options struct {
	extractors []StatusExtractor
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option customises one Do call.
type Option func(*options)

// WithStatusExtractor prepends a status extractor tried before the
// default one.
func WithStatusExtractor(fn StatusExtractor) Option {
	return func(o *options) {
		o.extractors = append([]StatusExtractor{fn}, o.extractors...)
	}
}

// withSleep replaces the backoff sleep. Test hook.
func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) { o.sleep = fn }
}

// statusCoder is the default shape an error exposes its status code by.
type statusCoder interface {
	HTTPStatusCode() int
}

func defaultExtractor(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		if code := sc.HTTPStatusCode(); code > 0 {
			return code, true
		}
	}
	return 0, false
}

// Do runs op until it succeeds, fails non-retryably, or exhausts the
// retry budget. The backoff before retry n is
// min(InitialBackoff * Multiplier^n, MaxBackoff), counted from n = 0,
// and is cut short by context cancellation.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error), opts ...Option) Result[T] {
	o := options{
		extractors: []StatusExtractor{defaultExtractor},
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(&o)
	}

	attempts := 0
	for {
		value, err := op(ctx)
		attempts++
		if err == nil {
			return Result[T]{Success: true, Value: value, Attempts: attempts}
		}

		if ctx.Err() != nil {
			return Result[T]{Attempts: attempts, Err: err}
		}
		if Classify(err, o.extractors...) == NonRetryable {
			return Result[T]{Attempts: attempts, Err: err}
		}
		retriesUsed := attempts - 1
		if retriesUsed >= cfg.MaxRetries {
			return Result[T]{Attempts: attempts, Err: err}
		}

		if sleepErr := o.sleep(ctx, backoff(cfg, retriesUsed)); sleepErr != nil {
			return Result[T]{Attempts: attempts, Err: err}
		}
	}
}

// backoff computes the delay before retry number n (0-based).
func backoff(cfg Config, n int) time.Duration {
	d := time.Duration(float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(n)))
	if cfg.MaxBackoff > 0 && (d > cfg.MaxBackoff || d < 0) {
		d = cfg.MaxBackoff
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
