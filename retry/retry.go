// Package retry provides a small helper for re-running an operation with
// exponential backoff. The demo agent wraps two non-critical calls with it to
// illustrate the pattern; it is not the dispatcher's resilience strategy.
package retry

import (
	"context"
	"time"
)

// Options configures a retried operation.
type Options struct {
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int
	// Delay is the wait before the first retry.
	Delay time.Duration
	// Backoff multiplies the delay after each failed attempt.
	Backoff float64
}

// DefaultOptions retries three times starting at one second, doubling.
func DefaultOptions() Options {
	return Options{MaxAttempts: 3, Delay: time.Second, Backoff: 2.0}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts with
// exponential backoff. The last error is returned when all attempts fail.
// Context cancellation aborts the wait and returns ctx.Err.
func Do(ctx context.Context, fn func() error, optFns ...func(o *Options)) error {
	opts := DefaultOptions()
	for _, f := range optFns {
		f(&opts)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	var err error
	delay := opts.Delay
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * opts.Backoff)
	}
	return err
}

// DoValue is Do for operations returning a value.
func DoValue[T any](ctx context.Context, fn func() (T, error), optFns ...func(o *Options)) (T, error) {
	var out T
	err := Do(ctx, func() error {
		var err error
		out, err = fn()
		return err
	}, optFns...)
	return out, err
}
