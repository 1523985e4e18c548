// Package ratelimit throttles per-event state lookups so a busy feed does
// not hammer the daemon with inspect calls.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing rps lookups per second. rps <= 0 disables
// limiting entirely.
func New(rps int) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Wait blocks until a lookup may proceed. A nil limiter never waits.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
