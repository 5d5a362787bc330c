// Package ratelimit paces remote submissions.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter blocks until the next submission may go out.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewFixedRate returns a token bucket of size one refilled every interval,
// so consecutive submissions are at least interval apart.
func NewFixedRate(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return Unlimited()
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Unlimited never blocks.
func Unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}
