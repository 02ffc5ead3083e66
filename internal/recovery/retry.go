package recovery

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wrenlabs/specwright/internal/errs"
)

const (
	// DefaultMaxAttempts is the total number of attempts, first try included.
	DefaultMaxAttempts = 3
	// DefaultInitialDelay is the delay before the first retry.
	DefaultInitialDelay = 1 * time.Second
	// DefaultMaxDelay caps the exponential backoff.
	DefaultMaxDelay = 30 * time.Second
	// DefaultBackoffFactor multiplies the delay after each retry.
	DefaultBackoffFactor = 2.0
)

// Operation is a unit of work whose results are captured by closure.
type Operation func(ctx context.Context) error

// RetryOptions configures Retry.
type RetryOptions struct {
	MaxAttempts         int
	InitialDelay        time.Duration
	MaxDelay            time.Duration
	BackoffFactor       float64
	RetryableCategories []errs.Category

	// OnRetry observes each retry before its backoff delay elapses.
	OnRetry func(attempt int, err *errs.Error, delay time.Duration)

	// Logger receives retry notices when OnRetry is unset (nil for none).
	Logger io.Writer
}

// DefaultRetryOptions returns the standard retry policy: three attempts,
// 1s initial delay doubling up to 30s, retrying network, timeout, and
// provider failures.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:         DefaultMaxAttempts,
		InitialDelay:        DefaultInitialDelay,
		MaxDelay:            DefaultMaxDelay,
		BackoffFactor:       DefaultBackoffFactor,
		RetryableCategories: []errs.Category{errs.Network, errs.Timeout, errs.Provider},
	}
}

func (o RetryOptions) normalized() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.BackoffFactor <= 1 {
		o.BackoffFactor = DefaultBackoffFactor
	}
	if o.RetryableCategories == nil {
		o.RetryableCategories = []errs.Category{errs.Network, errs.Timeout, errs.Provider}
	}
	return o
}

// Retry runs op with exponential backoff. A failure is retried only
// while attempts remain, the classified error is recoverable, and its
// category is in the retryable set; otherwise the classified error is
// returned immediately.
func Retry(ctx context.Context, opts RetryOptions, op Operation) error {
	opts = opts.normalized()

	delay := opts.InitialDelay
	var lastErr *errs.Error

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		lastErr = errs.Classify(err)

		if attempt == opts.MaxAttempts || !lastErr.Recoverable || !categoryIn(lastErr.Category, opts.RetryableCategories) {
			return lastErr
		}

		if opts.OnRetry != nil {
			opts.OnRetry(attempt, lastErr, delay)
		} else if opts.Logger != nil {
			fmt.Fprintf(opts.Logger, "Retrying in %s... (attempt %d/%d): %v\n", delay, attempt, opts.MaxAttempts, lastErr)
		}

		select {
		case <-ctx.Done():
			return errs.Classify(ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * opts.BackoffFactor)
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}

	return lastErr
}

func categoryIn(cat errs.Category, set []errs.Category) bool {
	for _, c := range set {
		if c == cat {
			return true
		}
	}
	return false
}
