package retry

import (
	"context"
	"errors"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultDelay       = 5 * time.Second
)

// Policy executes an operation up to MaxAttempts times with a fixed Delay
// between attempts. There is no backoff: copy and encode failures on flaky
// network storage tend to clear on a short, constant pause.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration

	// Sleep overrides how the delay is waited out (useful for tests).
	Sleep func(context.Context, time.Duration) error
}

// New returns a policy with the given attempt budget and fixed delay.
// Non-positive attempts fall back to the default budget.
func New(maxAttempts int, delay time.Duration) Policy {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if delay < 0 {
		delay = defaultDelay
	}
	return Policy{MaxAttempts: maxAttempts, Delay: delay}
}

// Do runs op until it succeeds or the attempt budget is exhausted, waiting
// the fixed delay between attempts. onRetry is invoked after each failed
// attempt that will be retried, with the 1-based attempt number and its
// error. The last failure is returned on exhaustion. Context cancellation
// aborts the wait and returns the context error joined with the last failure.
func (p Policy) Do(ctx context.Context, op func() error, onRetry func(attempt int, err error)) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return errors.Join(err, lastErr)
			}
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, lastErr)
		}
		if err := p.sleep(ctx); err != nil {
			return errors.Join(err, lastErr)
		}
	}
	return lastErr
}

func (p Policy) sleep(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	if p.Sleep != nil {
		return p.Sleep(ctx, p.Delay)
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
