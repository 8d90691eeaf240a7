package shared

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// RetryPolicy controls how transient request failures are retried.
//
// Delay before attempt n (0-based) is BaseDelay * 2^n plus up to one second of
// random jitter, so concurrent workers hitting the same throttle do not retry
// in lockstep.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *log.Logger

	// Sleep is swappable so tests can run the full ladder without real delays.
	Sleep func(ctx context.Context, d time.Duration) error
	// Jitter returns a random duration in [0, 1s).
	Jitter func() time.Duration
}

// DefaultRetryPolicy returns the policy used for catalog API calls.
func DefaultRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Second,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func defaultJitter() time.Duration {
	return time.Duration(rand.Int63n(int64(time.Second)))
}

// Retry runs op until it succeeds, returns a non-retryable error, or the
// attempt budget is exhausted. Only errors classified by [Retryable] are
// retried; the last error is returned wrapped in [ErrRetryBudgetExceeded]
// once the budget runs out.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	jitter := policy.Jitter
	if jitter == nil {
		jitter = defaultJitter
	}
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	base := policy.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := base*(1<<(attempt-1)) + jitter()
			if policy.Logger != nil {
				policy.Logger.Warn("retrying after transient failure", "attempt", attempt, "delay", delay, "err", err)
			}
			if serr := sleep(ctx, delay); serr != nil {
				return serr
			}
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) {
			return err
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryBudgetExceeded, attempts, err)
}
