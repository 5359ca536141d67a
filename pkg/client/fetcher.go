// Package client provides the retrying HTTP fetcher and the caching
// gateway in front of it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/cache"
	"github.com/Sternrassler/weather-pipeline/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Prometheus metrics for fetch operations.
var (
	fetchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_fetch_attempts_total",
		Help: "Total provider request attempts by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	fetchAttemptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weather_fetch_attempt_duration_seconds",
		Help:    "Provider request attempt duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
	}, []string{"endpoint"})

	fetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_fetch_errors_total",
		Help: "Total failed fetches by final error kind",
	}, []string{"kind"})
)

// DefaultTimeout is the per-attempt deadline.
const DefaultTimeout = 15 * time.Second

// Request is one logical GET against the provider.
type Request struct {
	// URL is the fully built request URL including query parameters
	URL *url.URL

	// Header is merged into the outgoing request
	Header http.Header

	// Validate, when set, decodes the body before the fetch counts as a
	// success. A failing body is never cached.
	Validate func(payload []byte) error
}

// Fingerprint returns the deterministic identity of the request.
func (r Request) Fingerprint() string {
	return cache.KeyFromURL(r.URL).String()
}

// Result is the outcome of an asynchronous Send.
type Result struct {
	Payload []byte
	Err     error
}

// Attempt describes one transport attempt, successful or not.
type Attempt struct {
	Fingerprint string
	Number      int
	StatusCode  int
	Duration    time.Duration
	Err         error
}

// BreakerConfig configures the optional circuit breaker.
type BreakerConfig struct {
	// Enabled turns the breaker on
	Enabled bool

	// ConsecutiveFailures trips the breaker (default: 5)
	ConsecutiveFailures uint32

	// OpenTimeout is how long the breaker stays open (default: 30s)
	OpenTimeout time.Duration
}

// Config holds the fetcher configuration.
type Config struct {
	// HTTPClient performs the requests (default: a client without timeout;
	// the fetcher applies Timeout per attempt)
	HTTPClient *http.Client

	// UserAgent header sent with every request
	UserAgent string

	// Timeout is the per-attempt deadline
	Timeout time.Duration

	// Retry controls the linear backoff
	Retry RetryPolicy

	// Limiter paces outbound requests (optional)
	Limiter *ratelimit.Limiter

	// Breaker configures the circuit breaker
	Breaker BreakerConfig

	// OnAttempt is called after every attempt (optional)
	OnAttempt func(Attempt)

	// Logger for fetch diagnostics (default: component logger)
	Logger *zerolog.Logger
}

// DefaultConfig returns a default fetcher configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
		Timeout:    DefaultTimeout,
		Retry:      DefaultRetryPolicy(),
		Breaker: BreakerConfig{
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
		},
	}
}

// Fetcher issues provider requests with timeout and linear-backoff retries.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	retry      RetryPolicy
	limiter    *ratelimit.Limiter
	breaker    *gobreaker.CircuitBreaker
	onAttempt  func(Attempt)
	retries    *retryTable
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %v)", cfg.Timeout)
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay < 0 {
		return nil, fmt.Errorf("base_delay must be >= 0 (got %v)", cfg.Retry.BaseDelay)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := log.With().Str("component", "fetcher").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	f := &Fetcher{
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		retry:      cfg.Retry,
		limiter:    cfg.Limiter,
		onAttempt:  cfg.OnAttempt,
		retries:    newRetryTable(),
		logger:     logger,
	}

	if cfg.Breaker.Enabled {
		f.breaker = newBreaker(cfg.Breaker, logger)
	}

	return f, nil
}

func newBreaker(cfg BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather-provider",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
		// Only transport-level trouble counts against the provider.
		IsSuccessful: func(err error) bool {
			return err == nil || !KindOf(err).Retryable()
		},
	})
}

// Send starts a fetch and returns a channel that receives exactly one Result.
// It never blocks the caller.
func (f *Fetcher) Send(ctx context.Context, req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		payload, err := f.Fetch(ctx, req)
		out <- Result{Payload: payload, Err: err}
	}()
	return out
}

// Fetch performs req, retrying timeouts and transport failures.
// Only the final outcome is returned; intermediate failures are logged.
func (f *Fetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if req.URL == nil {
		return nil, &FetchError{Kind: KindProvider, Message: "request URL is required"}
	}

	fingerprint := req.Fingerprint()
	endpoint := req.URL.Path

	var state *RetryState
	defer func() {
		if state != nil {
			f.retries.finish(fingerprint, state)
		}
	}()

	for attempt := 1; ; attempt++ {
		payload, err := f.attempt(ctx, req, fingerprint, attempt)
		if err == nil {
			if attempt > 1 {
				f.logger.Info().
					Str("fingerprint", fingerprint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return payload, nil
		}

		var fe *FetchError
		if !errors.As(err, &fe) {
			fe = &FetchError{Kind: KindTransport, Fingerprint: fingerprint, Err: err}
		}
		fe.Attempts = attempt

		if !fe.Kind.Retryable() || errors.Is(fe, ErrCircuitOpen) {
			fetchErrorsTotal.WithLabelValues(string(fe.Kind)).Inc()
			f.logger.Warn().
				Err(fe).
				Str("fingerprint", fingerprint).
				Str("kind", string(fe.Kind)).
				Int("attempt", attempt).
				Msg("Request failed without retry")
			return nil, fe
		}

		if state == nil {
			state = &RetryState{}
		}

		made := f.retries.attempts(state)
		if made >= f.retry.MaxRetries {
			fetchRetryExhaustedTotal.WithLabelValues(string(fe.Kind)).Inc()
			fetchErrorsTotal.WithLabelValues(string(KindRetriesExhausted)).Inc()
			f.logger.Error().
				Err(fe).
				Str("fingerprint", fingerprint).
				Str("endpoint", endpoint).
				Int("attempts", attempt).
				Msg("Retry attempts exhausted")
			return nil, &FetchError{
				Kind:        KindRetriesExhausted,
				Fingerprint: fingerprint,
				StatusCode:  fe.StatusCode,
				Attempts:    attempt,
				Message:     fmt.Sprintf("after %d attempts", attempt),
				Err:         fe,
			}
		}

		delay := f.retry.Delay(made)
		f.retries.advance(fingerprint, state, delay)

		fetchRetriesTotal.WithLabelValues(string(fe.Kind)).Inc()
		fetchRetryDelaySeconds.Observe(delay.Seconds())
		f.logger.Warn().
			Err(fe).
			Str("fingerprint", fingerprint).
			Str("kind", string(fe.Kind)).
			Int("retry", made+1).
			Dur("delay", delay).
			Msg("Retrying request after delay")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			fetchErrorsTotal.WithLabelValues(string(KindCanceled)).Inc()
			return nil, &FetchError{
				Kind:        KindCanceled,
				Fingerprint: fingerprint,
				Attempts:    attempt,
				Message:     "cancelled during retry delay",
				Err:         ctx.Err(),
			}
		case <-timer.C:
		}
	}
}

// RetryState returns the retry bookkeeping for an in-flight fingerprint.
func (f *Fetcher) RetryState(fingerprint string) (RetryState, bool) {
	return f.retries.get(fingerprint)
}

// Retrying returns the number of request chains currently between retries.
func (f *Fetcher) Retrying() int {
	return f.retries.len()
}

// attempt performs a single transport attempt under the per-attempt deadline.
func (f *Fetcher) attempt(ctx context.Context, req Request, fingerprint string, number int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Kind: KindCanceled, Fingerprint: fingerprint, Err: err}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Kind: KindCanceled, Fingerprint: fingerprint, Err: err}
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	var (
		payload []byte
		status  int
		err     error
	)
	if f.breaker != nil {
		var out interface{}
		out, err = f.breaker.Execute(func() (interface{}, error) {
			body, code, rtErr := f.roundTrip(ctx, attemptCtx, req, fingerprint)
			status = code
			return body, rtErr
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &FetchError{Kind: KindTransport, Fingerprint: fingerprint, Err: fmt.Errorf("%w: %v", ErrCircuitOpen, err)}
		}
		if body, ok := out.([]byte); ok {
			payload = body
		}
	} else {
		payload, status, err = f.roundTrip(ctx, attemptCtx, req, fingerprint)
	}
	elapsed := time.Since(start)

	endpoint := req.URL.Path
	fetchAttemptDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	fetchAttemptsTotal.WithLabelValues(endpoint, outcome).Inc()

	f.logger.Debug().
		Str("fingerprint", fingerprint).
		Int("attempt", number).
		Int("status_code", status).
		Dur("duration", elapsed).
		Str("outcome", outcome).
		Msg("Provider request attempt")

	if f.onAttempt != nil {
		f.onAttempt(Attempt{
			Fingerprint: fingerprint,
			Number:      number,
			StatusCode:  status,
			Duration:    elapsed,
			Err:         err,
		})
	}

	return payload, err
}

// roundTrip sends the HTTP request and validates the response.
func (f *Fetcher) roundTrip(parent, attemptCtx context.Context, req Request, fingerprint string) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, req.URL.String(), nil)
	if err != nil {
		return nil, 0, &FetchError{Kind: KindProvider, Fingerprint: fingerprint, Message: "build request", Err: err}
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("User-Agent", f.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, classifyTransportError(parent, attemptCtx, fingerprint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(parent, attemptCtx, fingerprint, err)
	}

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		err.Fingerprint = fingerprint
		return nil, resp.StatusCode, err
	}

	if err := checkPayload(body); err != nil {
		err.Fingerprint = fingerprint
		err.StatusCode = resp.StatusCode
		return nil, resp.StatusCode, err
	}

	if req.Validate != nil {
		if err := req.Validate(body); err != nil {
			return nil, resp.StatusCode, decodeFailure(fingerprint, resp.StatusCode, err)
		}
	}

	return body, resp.StatusCode, nil
}

// decodeFailure tags a validation error as a non-retryable decode failure.
func decodeFailure(fingerprint string, status int, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		out := *fe
		out.Kind = KindDecode
		out.Fingerprint = fingerprint
		out.StatusCode = status
		return &out
	}
	return &FetchError{Kind: KindDecode, Fingerprint: fingerprint, StatusCode: status, Message: "decode response", Err: err}
}

// classifyTransportError distinguishes caller cancellation, the per-attempt
// deadline and other transport failures.
func classifyTransportError(parent, attemptCtx context.Context, fingerprint string, err error) *FetchError {
	if parent.Err() != nil {
		return &FetchError{Kind: KindCanceled, Fingerprint: fingerprint, Err: parent.Err()}
	}

	var netErr net.Error
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: KindTimeout, Fingerprint: fingerprint, Message: "no response within deadline", Err: err}
	}

	return &FetchError{Kind: KindTransport, Fingerprint: fingerprint, Err: err}
}

// classifyStatus maps non-2xx responses to error kinds.
func classifyStatus(status int, body []byte) *FetchError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500, status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return &FetchError{Kind: KindTransport, StatusCode: status, Message: http.StatusText(status)}
	default:
		msg := providerReason(body)
		if msg == "" {
			msg = "HTTP " + strconv.Itoa(status)
		}
		return &FetchError{Kind: KindProvider, StatusCode: status, Message: msg}
	}
}

// errorEnvelope is the provider's error body: {"error": true, "reason": "..."}.
type errorEnvelope struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func providerReason(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || !env.Error {
		return ""
	}
	return env.Reason
}

// checkPayload rejects malformed bodies and provider error envelopes.
func checkPayload(body []byte) *FetchError {
	if !json.Valid(body) {
		return &FetchError{Kind: KindDecode, Message: "response is not valid JSON"}
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error {
		msg := env.Reason
		if msg == "" {
			msg = "provider reported an error"
		}
		return &FetchError{Kind: KindProvider, Message: msg}
	}
	return nil
}
