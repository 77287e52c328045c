// Package wait provides a bounded fixed-interval polling loop.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetryBudgetExceeded is returned by Poll when the condition did not
// succeed within the attempt budget.
var ErrRetryBudgetExceeded = errors.New("retry budget exceeded")

const (
	// DefaultInterval is the pause between condition checks.
	DefaultInterval = 10 * time.Second

	// DefaultMaxAttempts is the attempt ceiling.
	DefaultMaxAttempts = 30
)

// Condition reports whether the awaited state has been reached.
// Returning an error does not abort the poll; the error is kept and
// reported if the budget runs out.
type Condition func(ctx context.Context) (bool, error)

// Options control the polling loop.  Zero values select the defaults.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
}

// Poll checks cond every Interval until it returns true, the attempt budget
// is exhausted, or ctx is canceled.  The interval is fixed; there is no
// backoff and no jitter.
func Poll(ctx context.Context, cond Condition, opts Options) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		ok, err := cond(ctx)
		if ok {
			return nil
		}
		lastErr = err

		if attempt == opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Interval):
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w after %d attempts: last error: %v", ErrRetryBudgetExceeded, opts.MaxAttempts, lastErr)
	}
	return fmt.Errorf("%w after %d attempts", ErrRetryBudgetExceeded, opts.MaxAttempts)
}
