// Package testutil provides testing utilities for the weather pipeline.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// Canned Open-Meteo style bodies served by the default handler.
const (
	CurrentBody = `{"latitude":39.9,"longitude":116.4,"timezone":"Asia/Shanghai",` +
		`"current":{"time":"2024-06-01T08:00","temperature_2m":25.3,"relative_humidity_2m":60,` +
		`"apparent_temperature":26.1,"weather_code":1,"surface_pressure":1008.2,` +
		`"wind_speed_10m":12.5,"wind_direction_10m":180}}`

	HourlyBody = `{"latitude":39.9,"longitude":116.4,"timezone":"Asia/Shanghai",` +
		`"hourly":{"time":["2024-06-01T08:00","2024-06-01T09:00"],` +
		`"temperature_2m":[25.3,26.0],"weather_code":[1,61],"relative_humidity_2m":[60,58],` +
		`"wind_speed_10m":[12.5,13.0],"wind_direction_10m":[180,190],` +
		`"precipitation_probability":[10,70]}}`

	DailyBody = `{"latitude":39.9,"longitude":116.4,"timezone":"Asia/Shanghai",` +
		`"daily":{"time":["2024-06-01","2024-06-02"],` +
		`"temperature_2m_max":[30.1,31.4],"temperature_2m_min":[20.2,21.0],` +
		`"weather_code":[1,3],"wind_speed_10m_max":[20.0,18.5],` +
		`"wind_direction_10m_dominant":[180,200],"precipitation_probability_max":[10,40],` +
		`"uv_index_max":[7.5,6.0],` +
		`"sunrise":["2024-06-01T04:45","2024-06-02T04:45"],` +
		`"sunset":["2024-06-01T19:40","2024-06-02T19:41"]}}`

	AdvisoryBody = `{"alerts":[{"id":"a-1","sender":"Met Office","pubTime":"2024-06-01T07:00",` +
		`"title":"Heat advisory","status":"active","level":"yellow","type":"heat",` +
		`"typeName":"High temperature","text":"Temperatures above 35C expected."}]}`
)

// MockResponse defines the behavior for a mock provider response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration

	// Hang blocks until the client gives up on the request
	Hang bool
}

// RecordedRequest is a request seen by the mock provider.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
	At     time.Time
}

// MockProvider is a configurable mock weather provider for testing.
type MockProvider struct {
	server    *httptest.Server
	mu        sync.RWMutex
	handlers  map[string]func(w http.ResponseWriter, r *http.Request)
	sequences map[string][]MockResponse
	requests  []RecordedRequest
}

// NewMockProvider creates a new mock provider server.
func NewMockProvider() *MockProvider {
	mock := &MockProvider{
		handlers:  make(map[string]func(w http.ResponseWriter, r *http.Request)),
		sequences: make(map[string][]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			At:     time.Now(),
		})

		// Scripted responses take precedence; the last one repeats.
		if seq, ok := mock.sequences[r.URL.Path]; ok && len(seq) > 0 {
			resp := seq[0]
			if len(seq) > 1 {
				mock.sequences[r.URL.Path] = seq[1:]
			}
			mock.mu.Unlock()
			writeResponse(w, r, resp)
			return
		}

		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockProvider) URL() string {
	return m.server.URL
}

// Client returns an HTTP client wired to the mock server.
func (m *MockProvider) Client() *http.Client {
	return m.server.Client()
}

// Close shuts down the mock server.
func (m *MockProvider) Close() {
	m.server.CloseClientConnections()
	m.server.Close()
}

// Reset clears recorded requests and scripted responses.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.sequences = make(map[string][]MockResponse)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockProvider) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockProvider) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, r, resp)
	})
}

// SetSequence scripts successive responses for a path.
// Once exhausted the final response is repeated.
func (m *MockProvider) SetSequence(path string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequences[path] = append([]MockResponse(nil), responses...)
}

// RequestCount returns the number of requests made to the server.
func (m *MockProvider) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns a copy of every recorded request.
func (m *MockProvider) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// LastRequest returns the most recent request, if any.
func (m *MockProvider) LastRequest() (RecordedRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// defaultHandler answers like the forecast API, picking the body by query.
func (m *MockProvider) defaultHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body := `{"status":"ok"}`
	switch {
	case q.Has("current"):
		body = CurrentBody
	case q.Has("hourly"):
		body = HourlyBody
	case q.Has("daily"):
		body = DailyBody
	case r.URL.Path == "/alerts":
		body = AdvisoryBody
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp MockResponse) {
	if resp.Hang {
		<-r.Context().Done()
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewHealthyResponse creates a standard 200 OK JSON response.
func NewHealthyResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":true,"reason":"Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewProviderErrorResponse creates a 400 response with the provider error envelope.
func NewProviderErrorResponse(reason string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       `{"error":true,"reason":"` + reason + `"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 response whose body is not JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"current": {"temperature_2m": 25.3`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewHangingResponse creates a response that never arrives.
func NewHangingResponse() MockResponse {
	return MockResponse{Hang: true}
}
