package discovery

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/dillib/cloudbom/internal/errkind"
)

// RetryPolicy is a reusable exponential-backoff schedule shared by every
// backend call site (spec §4.3's retry-with-backoff step).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy backs off 250ms, 500ms, 1s, capped at 8s, for a total
// of four attempts including the first.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 4,
	BaseDelay:   250 * time.Millisecond,
	MaxDelay:    8 * time.Second,
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	jitter := 0.85 + rand.Float64()*0.3
	return time.Duration(d * jitter)
}

// Do runs fn, retrying transient and throttled failures per the policy's
// schedule. It gives up early on any other error kind, and on context
// cancellation, per spec §7's "which errors are retried".
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errkind.Wrap(errkind.Cancelled, err, "retry aborted: context done")
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !errkind.Is(lastErr, errkind.Transient) && !errkind.Is(lastErr, errkind.Throttled) {
			return lastErr
		}

		if attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return errkind.Wrap(errkind.Cancelled, ctx.Err(), "retry aborted: context done")
		case <-time.After(p.delay(attempt)):
		}
	}
	return lastErr
}
