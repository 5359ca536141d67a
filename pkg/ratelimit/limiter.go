package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for outbound rate limiting.
var (
	rateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_rate_limit_throttles_total",
		Help: "Total number of provider requests delayed by the rate limiter",
	})

	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_rate_limit_wait_seconds",
		Help:    "Time provider requests spent waiting for the rate limiter",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)

// Config holds limiter configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate; <= 0 disables limiting
	RequestsPerSecond float64

	// Burst is the bucket size (minimum 1)
	Burst int
}

// Limiter gates outbound requests with a token bucket.
type Limiter struct {
	limiter   *rate.Limiter
	throttled atomic.Int64
	logger    zerolog.Logger
}

// NewLimiter creates a limiter. A non-positive rate yields an unlimited limiter.
func NewLimiter(cfg Config, logger zerolog.Logger) *Limiter {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Wait blocks until a request may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	reservation := l.limiter.Reserve()
	if !reservation.OK() {
		return fmt.Errorf("rate limit: burst %d cannot admit request", l.limiter.Burst())
	}

	delay := reservation.Delay()
	if delay == 0 {
		return nil
	}

	l.throttled.Add(1)
	rateLimitThrottlesTotal.Inc()
	l.logger.Debug().Dur("delay", delay).Msg("Request throttled by rate limiter")

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		reservation.Cancel()
		return fmt.Errorf("rate limit wait canceled: %w", ctx.Err())
	case <-timer.C:
		rateLimitWaitSeconds.Observe(delay.Seconds())
		return nil
	}
}

// State returns a snapshot of the limiter.
func (l *Limiter) State() State {
	limit := float64(l.limiter.Limit())
	if l.limiter.Limit() == rate.Inf {
		limit = 0
	}

	return State{
		Limit:      limit,
		Burst:      l.limiter.Burst(),
		Tokens:     l.limiter.Tokens(),
		Throttled:  l.throttled.Load(),
		LastUpdate: time.Now(),
	}
}
