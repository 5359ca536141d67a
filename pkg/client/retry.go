package client

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	fetchRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_fetch_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"kind"})

	fetchRetryDelaySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_fetch_retry_delay_seconds",
		Help:    "Delay before each retry attempt",
		Buckets: []float64{0.1, 0.5, 1, 2, 3, 5, 10},
	})

	fetchRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_fetch_retry_exhausted_total",
		Help: "Total number of fetches that exhausted their retries by last error kind",
	}, []string{"kind"})
)

// RetryPolicy holds the configuration for retry logic.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// BaseDelay is the unit of the linear backoff.
	BaseDelay time.Duration
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
}

// Delay returns the wait before the next attempt, given the number of
// retries already made: BaseDelay * (attemptsMade + 1).
func (p RetryPolicy) Delay(attemptsMade int) time.Duration {
	return p.BaseDelay * time.Duration(attemptsMade+1)
}

// RetryState tracks an outstanding request chain that has failed at least once.
type RetryState struct {
	AttemptsMade int
	NextDelay    time.Duration
}

// retryTable holds one RetryState per in-flight fingerprint.
// A chain only ever clears the entry it created.
type retryTable struct {
	mu     sync.Mutex
	chains map[string]*RetryState
}

func newRetryTable() *retryTable {
	return &retryTable{chains: make(map[string]*RetryState)}
}

// advance records a scheduled retry and publishes state under fingerprint.
func (t *retryTable) advance(fingerprint string, state *RetryState, delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state.AttemptsMade++
	state.NextDelay = delay
	t.chains[fingerprint] = state
}

// attempts returns how many retries state has made.
func (t *retryTable) attempts(state *RetryState) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return state.AttemptsMade
}

// finish removes the chain if it still owns the fingerprint.
func (t *retryTable) finish(fingerprint string, state *RetryState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.chains[fingerprint] == state {
		delete(t.chains, fingerprint)
	}
}

// get returns a copy of the state for fingerprint.
func (t *retryTable) get(fingerprint string) (RetryState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.chains[fingerprint]
	if !ok {
		return RetryState{}, false
	}
	return *state, true
}

// len returns the number of chains currently retrying.
func (t *retryTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.chains)
}
