package checker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DispatchLimiter enforces a minimum spacing between request dispatches.
// Completions are not limited; a slow response does not delay the next
// dispatch beyond the configured spacing.
type DispatchLimiter struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewDispatchLimiter returns a limiter that lets one dispatch through every
// delay. A delay of zero or less disables limiting.
func NewDispatchLimiter(delay time.Duration) *DispatchLimiter {
	if delay <= 0 {
		return &DispatchLimiter{}
	}
	// Burst 1 so the spacing holds from the very first pair of requests.
	return &DispatchLimiter{
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		delay:   delay,
	}
}

// Wait blocks until the next dispatch is allowed or ctx is done.
// It is safe to call Wait from multiple goroutines concurrently.
func (d *DispatchLimiter) Wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}

// Delay returns the configured spacing, 0 when disabled.
func (d *DispatchLimiter) Delay() time.Duration {
	return d.delay
}
