// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out consecutive remote calls. Wait blocks until the next
// call may proceed or ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for a constant duration on every Wait.
type FixedDelay struct {
	Delay time.Duration

	// After is the timer source. Nil means time.After; tests substitute
	// a channel that fires immediately.
	After func(time.Duration) <-chan time.Time
}

// Wait sleeps for d.Delay. It returns ctx.Err() if the context is
// cancelled first.
func (d FixedDelay) Wait(ctx context.Context) error {
	if d.Delay <= 0 {
		return ctx.Err()
	}
	after := d.After
	if after == nil {
		after = time.After
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(d.Delay):
		return nil
	}
}

// RateLimit paces calls with a token bucket.
type RateLimit struct {
	limiter *rate.Limiter
}

// NewRateLimit allows perSecond calls per second with a burst of one.
func NewRateLimit(perSecond float64) *RateLimit {
	return &RateLimit{limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

// Wait blocks until the limiter grants a token.
func (r *RateLimit) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// NoDelay never waits.
type NoDelay struct{}

// Wait returns immediately unless ctx is already done.
func (NoDelay) Wait(ctx context.Context) error { return ctx.Err() }

// NewPacer picks a pacer from settings: a token bucket when perSecond is
// positive, otherwise a fixed delay.
func NewPacer(delay time.Duration, perSecond float64) Pacer {
	if perSecond > 0 {
		return NewRateLimit(perSecond)
	}
	return FixedDelay{Delay: delay}
}
