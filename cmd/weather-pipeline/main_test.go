package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/weather-pipeline/internal/config"
	"github.com/Sternrassler/weather-pipeline/internal/testutil"
	"github.com/Sternrassler/weather-pipeline/pkg/controller"
	"github.com/Sternrassler/weather-pipeline/pkg/prefs"
	"github.com/Sternrassler/weather-pipeline/pkg/queue"
	"github.com/Sternrassler/weather-pipeline/pkg/weather"
	"github.com/alicebob/miniredis/v2"
)

func testConfig(providerURL, redisAddr string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Provider: config.ProviderConfig{BaseURL: providerURL + "/v1", UserAgent: "weather-pipeline-test/1.0"},
		Fetch: config.FetchConfig{
			TimeoutMS:      2000,
			MaxRetries:     1,
			BaseDelayMS:    5,
			RateLimitRPS:   100,
			RateLimitBurst: 10,
		},
		Cache: config.CacheConfig{
			Capacity:          100,
			TTLCurrentSeconds: 300,
			TTLHourlySeconds:  600,
			TTLDailySeconds:   1800,
			SingleFlight:      true,
		},
		Controller: config.ControllerConfig{MaintenanceIntervalMS: 300000, NotificationBuffer: 64},
		Database:   config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared"},
		Redis:      config.RedisConfig{Addr: redisAddr},
		Log:        config.LogConfig{Level: "error"},
	}
}

func newTestApp(t *testing.T, redisAddr string) (*app, *testutil.MockProvider) {
	t.Helper()

	mock := testutil.NewMockProvider()
	t.Cleanup(mock.Close)

	a, err := newApp(context.Background(), testConfig(mock.URL(), redisAddr))
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.Close)

	if err := a.controller.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = a.controller.Stop() })

	return a, mock
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestRefreshEndpoint(t *testing.T) {
	a, mock := newTestApp(t, "")
	server := httptest.NewServer(a.routes())
	defer server.Close()

	resp, err := http.Post(server.URL+"/refresh/101010100", "", nil)
	if err != nil {
		t.Fatalf("POST /refresh error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["subject_id"] != "101010100" {
		t.Errorf("subject_id = %v, want 101010100", body["subject_id"])
	}
	if gen, _ := body["generation"].(string); gen == "" {
		t.Error("generation is empty")
	}

	timeout := time.After(3 * time.Second)
	for done := false; !done; {
		select {
		case n := <-a.controller.Notifications():
			done = n.Kind == controller.AllDataReady
		case <-timeout:
			t.Fatal("timed out waiting for AllDataReady")
		}
	}

	// Current and secondary index share one request.
	if got := mock.RequestCount(); got != 3 {
		t.Errorf("RequestCount() = %d, want 3", got)
	}
}

func TestRefreshRequiresPost(t *testing.T) {
	a, _ := newTestApp(t, "")
	server := httptest.NewServer(a.routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/refresh/101010100")
	if err != nil {
		t.Fatalf("GET /refresh error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}

func TestPendingEndpoint(t *testing.T) {
	a, _ := newTestApp(t, "")
	server := httptest.NewServer(a.routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/pending")
	if err != nil {
		t.Fatalf("GET /pending error = %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Pending int    `json:"pending"`
		State   string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Pending != 0 {
		t.Errorf("pending = %d, want 0", body.Pending)
	}
	if body.State != "idle" {
		t.Errorf("state = %q, want idle", body.State)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a, _ := newTestApp(t, "")
	server := httptest.NewServer(a.routes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "weather_queue_depth") {
		t.Error("Expected /metrics to expose weather_queue_depth")
	}
}

func TestPrefsEndpoint(t *testing.T) {
	mockRedis := miniredis.RunT(t)
	a, _ := newTestApp(t, mockRedis.Addr())
	server := httptest.NewServer(a.routes())
	defer server.Close()

	put := func(query string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, server.URL+"/prefs/101010100?"+query, nil)
		if err != nil {
			t.Fatalf("NewRequest() error = %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("PUT /prefs error = %v", err)
		}
		resp.Body.Close()
		return resp
	}

	if resp := put("temperature=F&wind=mph"); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	want := prefs.Units{Temperature: prefs.Fahrenheit, Wind: prefs.MilesPerHour}
	if got := a.units(context.Background(), "101010100"); got != want {
		t.Errorf("units() = %+v, want %+v", got, want)
	}

	if resp := put("temperature=kelvin"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

func TestPrefsEndpointDisabled(t *testing.T) {
	a, _ := newTestApp(t, "")
	server := httptest.NewServer(a.routes())
	defer server.Close()

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/prefs/101010100?temperature=F", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /prefs error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}
	if got := a.units(context.Background(), "101010100"); got != prefs.DefaultUnits() {
		t.Errorf("units() = %+v, want defaults", got)
	}
}

func TestSummarize(t *testing.T) {
	imperial := prefs.Units{Temperature: prefs.Fahrenheit, Wind: prefs.MilesPerHour}

	tests := []struct {
		name  string
		n     controller.Notification
		units prefs.Units
		want  string
	}{
		{
			name: "current in imperial units",
			n: controller.Notification{Kind: controller.CurrentReady, Current: &weather.CurrentConditions{
				Description: "Mainly clear", Temperature: 20, FeelsLike: 25,
				WindDirection: "S", WindSpeed: 16.09344, Humidity: 60,
			}},
			units: imperial,
			want:  "Mainly clear, 68.0°F (feels 77.0°F), wind S 10.0 mph, humidity 60%",
		},
		{
			name:  "daily",
			n:     controller.Notification{Kind: controller.DailyReady, Daily: []weather.DailyPoint{{Description: "Overcast", High: 30, Low: 20}}},
			units: prefs.DefaultUnits(),
			want:  "daily forecast: 1 days, today Overcast 30.0°C / 20.0°C",
		},
		{
			name:  "no advisories",
			n:     controller.Notification{Kind: controller.AdvisoryReady, Advisories: []weather.Advisory{}},
			units: prefs.DefaultUnits(),
			want:  "advisories: none",
		},
		{
			name:  "error",
			n:     controller.Notification{Kind: controller.Error, Message: "fetch provider error"},
			units: prefs.DefaultUnits(),
			want:  "error: fetch provider error",
		},
		{
			name:  "maintenance",
			n:     controller.Notification{Kind: controller.MaintenanceCompleted, Removed: 3},
			units: prefs.DefaultUnits(),
			want:  "maintenance removed 3 expired entries",
		},
		{
			name:  "task started",
			n:     controller.Notification{Kind: controller.TaskStarted, Task: queue.Task{Kind: queue.KindHourly, SubjectID: "101010100"}},
			units: prefs.DefaultUnits(),
			want:  "task_started hourly:101010100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarize(tt.n, tt.units); got != tt.want {
				t.Errorf("summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
