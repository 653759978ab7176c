package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/config"
	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

// Sleeper controls how the executor suspends between attempts. Two
// implementations share the executor's single algorithm; they must differ
// only in the wait mechanism, never in attempt counts or final error types.
type Sleeper interface {
	// Sleep waits for d or until the context is cancelled. A non-nil return
	// aborts the retry loop with that error.
	Sleep(ctx context.Context, d time.Duration) error
}

// ContextSleeper suspends cooperatively: the wait parks the goroutine on a
// timer and observes cancellation immediately. This is the default.
type ContextSleeper struct{}

func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BlockingSleeper suspends with a plain thread-blocking wait, for simple
// synchronous call sites. Cancellation raised mid-wait is still honored
// before the next attempt starts.
type BlockingSleeper struct{}

func (BlockingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	time.Sleep(d)
	return ctx.Err()
}

type options struct {
	classify func(error) bool
	retryOn  []error
	sleeper  Sleeper
	log      *zap.Logger
	name     string
}

// Option customizes a single Do invocation.
type Option func(*options)

// WithClassifier replaces the default IsRetryable classifier.
func WithClassifier(fn func(error) bool) Option {
	return func(o *options) { o.classify = fn }
}

// WithRetryOn restricts retries to errors matching (errors.Is) one of the
// given targets. When set, the allow-list overrides the classifier entirely;
// anything else propagates unchanged on first occurrence.
func WithRetryOn(targets ...error) Option {
	return func(o *options) { o.retryOn = targets }
}

// WithSleeper selects the suspension mechanism used between attempts.
func WithSleeper(s Sleeper) Option {
	return func(o *options) { o.sleeper = s }
}

// WithLogger sets the log sink receiving one warning per retry and one error
// on exhaustion. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithName labels the operation in log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Do runs op under the given retry policy and returns its first successful
// result. On failure the error is classified; non-retryable errors propagate
// unchanged immediately, retryable ones are reattempted after an exponential
// backoff until the budget of cfg.MaxRetries+1 attempts is consumed, at which
// point a *sdkerr.RetryExhaustedError wrapping the final failure is returned.
//
// Cancellation is checked before every attempt and during cooperative waits;
// a cancelled context surfaces ctx.Err, never a RetryExhaustedError. Each
// invocation owns its attempt counter, so concurrent calls sharing a config
// have fully independent budgets.
func Do[T any](ctx context.Context, cfg config.RetryConfig, op func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T

	if err := cfg.Validate(); err != nil {
		return zero, err
	}

	o := options{
		classify: IsRetryable,
		sleeper:  ContextSleeper{},
		log:      zap.NewNop(),
		name:     "operation",
	}
	for _, opt := range opts {
		opt(&o)
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if len(o.retryOn) > 0 {
			if !matchesAny(err, o.retryOn) {
				o.log.Debug("non-retryable error",
					zap.String("op", o.name), zap.Error(err))
				return zero, err
			}
		} else if !o.classify(err) {
			o.log.Debug("non-retryable error",
				zap.String("op", o.name), zap.Error(err))
			return zero, err
		}

		if attempt == cfg.MaxRetries {
			o.log.Error("all attempts failed",
				zap.String("op", o.name),
				zap.Int("attempts", cfg.MaxRetries+1),
				zap.Error(lastErr))
			return zero, &sdkerr.RetryExhaustedError{Attempts: cfg.MaxRetries + 1, LastErr: lastErr}
		}

		d := DelayFor(attempt, cfg)
		o.log.Warn("attempt failed, retrying",
			zap.String("op", o.name),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", cfg.MaxRetries+1),
			zap.Duration("delay", d),
			zap.Error(err))

		if err := o.sleeper.Sleep(ctx, d); err != nil {
			return zero, err
		}
	}

	// Unreachable: the loop always returns. Kept for safety.
	return zero, &sdkerr.RetryExhaustedError{Attempts: cfg.MaxRetries + 1, LastErr: lastErr}
}

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
