// Package retry wraps query execution with exponential backoff and an
// optional circuit breaker. Only transient failures are retried:
// connection and process errors may succeed on a fresh subprocess, while
// aborts, validation failures and malformed output never will.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/claudepipe/claudepipe/pkg/piperrs"
)

// Config bounds the retry loop.
type Config struct {
	// MaxAttempts counts the initial attempt; 0 or 1 disables retries.
	MaxAttempts int
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration
	// MaxInterval caps the delay between retries.
	MaxInterval time.Duration
	// MaxElapsedTime bounds the whole loop; 0 means unbounded.
	MaxElapsedTime time.Duration
	// Notify, when set, observes each failed attempt and the upcoming delay.
	Notify func(err error, next time.Duration)
}

// DefaultConfig returns the retry policy used when callers pass a zero Config.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     15 * time.Second,
	}
}

// Retryable reports whether a failed query is worth a fresh subprocess.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	return piperrs.IsConnection(err) || piperrs.IsProcess(err)
}

// Do runs op with the configured backoff until it succeeds, exhausts its
// attempts, or fails permanently. Non-retryable errors and context
// expiry are returned immediately.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultConfig()
	}

	expo := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		expo.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		expo.MaxInterval = cfg.MaxInterval
	}

	operation := func() (T, error) {
		result, err := op(ctx)
		if err != nil && !Retryable(err) {
			return result, backoff.Permanent(err)
		}

		return result, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
	}
	if cfg.MaxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(cfg.MaxElapsedTime))
	}
	if cfg.Notify != nil {
		opts = append(opts, backoff.WithNotify(backoff.Notify(cfg.Notify)))
	}

	return backoff.Retry(ctx, operation, opts...)
}
