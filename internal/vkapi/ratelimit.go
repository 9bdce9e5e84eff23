package vkapi

import (
	"golang.org/x/time/rate"
)

const (
	defaultRPS   = 3.0
	defaultBurst = 1
)

// newLimiter paces calls to the per-token VK limit. Zero values take the
// defaults; a negative rps disables pacing.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps < 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if rps == 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
