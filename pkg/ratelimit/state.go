// Package ratelimit paces outbound provider requests.
// It wraps a token bucket so the fetcher never exceeds the configured
// request rate, and reports throttling through metrics.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// State is a point-in-time snapshot of a limiter.
type State struct {
	// Limit is the sustained request rate in requests per second.
	// Zero means unlimited.
	Limit float64 `json:"limit"`

	// Burst is the maximum number of requests allowed at once.
	Burst int `json:"burst"`

	// Tokens is the number of requests that could start immediately.
	Tokens float64 `json:"tokens"`

	// Throttled counts requests that had to wait for a token.
	Throttled int64 `json:"throttled"`

	// LastUpdate is when the snapshot was taken.
	LastUpdate time.Time `json:"last_update"`
}

// Unlimited reports whether the limiter lets every request through.
func (s State) Unlimited() bool {
	return s.Limit == 0 || s.Limit == float64(rate.Inf)
}

// Saturated reports whether the next request would have to wait.
func (s State) Saturated() bool {
	return !s.Unlimited() && s.Tokens < 1
}
