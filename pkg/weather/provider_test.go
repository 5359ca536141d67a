package weather

import (
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/weather-pipeline/internal/testutil"
)

var beijing = Location{ID: "101010100", Name: "Beijing", Latitude: 39.9042, Longitude: 116.4074}

func newTestProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()

	p, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default base url", cfg: Config{}, wantErr: false},
		{name: "custom base url", cfg: Config{BaseURL: "http://localhost:8080/v1/"}, wantErr: false},
		{name: "relative base url", cfg: Config{BaseURL: "/v1"}, wantErr: true},
		{name: "invalid advisory url", cfg: Config{AdvisoryURL: "alerts"}, wantErr: true},
		{name: "valid advisory url", cfg: Config{AdvisoryURL: "http://localhost/alerts"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultTTLs(t *testing.T) {
	ttl := DefaultTTLs()

	if ttl.Current != 300*time.Second {
		t.Errorf("Current = %v, want 300s", ttl.Current)
	}
	if ttl.Hourly != 600*time.Second {
		t.Errorf("Hourly = %v, want 600s", ttl.Hourly)
	}
	if ttl.Daily != 1800*time.Second {
		t.Errorf("Daily = %v, want 1800s", ttl.Daily)
	}
}

func TestProvider_CurrentRequest(t *testing.T) {
	p := newTestProvider(t, Config{BaseURL: "https://api.open-meteo.com/v1"})

	req := p.CurrentRequest(beijing)

	if req.URL.Path != "/v1/forecast" {
		t.Errorf("Path = %q, want /v1/forecast", req.URL.Path)
	}
	q := req.URL.Query()
	if q.Get("latitude") != "39.9042" || q.Get("longitude") != "116.4074" {
		t.Errorf("coordinates = %s,%s", q.Get("latitude"), q.Get("longitude"))
	}
	if !strings.Contains(q.Get("current"), "temperature_2m") {
		t.Errorf("current = %q, want temperature_2m", q.Get("current"))
	}
	if q.Get("timezone") != "auto" {
		t.Errorf("timezone = %q, want auto", q.Get("timezone"))
	}

	// Same subject, same fingerprint.
	if p.CurrentRequest(beijing).Fingerprint() != req.Fingerprint() {
		t.Error("fingerprint not deterministic")
	}
}

func TestProvider_HorizonDefaults(t *testing.T) {
	p := newTestProvider(t, Config{})

	tests := []struct {
		name  string
		param string
		got   string
		want  string
	}{
		{name: "hourly default", param: "forecast_hours", got: p.HourlyRequest(beijing, 0).URL.Query().Get("forecast_hours"), want: "24"},
		{name: "hourly explicit", param: "forecast_hours", got: p.HourlyRequest(beijing, 12).URL.Query().Get("forecast_hours"), want: "12"},
		{name: "hourly clamped", param: "forecast_hours", got: p.HourlyRequest(beijing, 1000).URL.Query().Get("forecast_hours"), want: "384"},
		{name: "daily default", param: "forecast_days", got: p.DailyRequest(beijing, -1).URL.Query().Get("forecast_days"), want: "7"},
		{name: "daily clamped", param: "forecast_days", got: p.DailyRequest(beijing, 30).URL.Query().Get("forecast_days"), want: "16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.param, tt.got, tt.want)
			}
		})
	}
}

func TestProvider_AdvisoryRequest(t *testing.T) {
	none := newTestProvider(t, Config{})
	if _, ok := none.AdvisoryRequest(beijing); ok {
		t.Error("AdvisoryRequest() ok = true without advisory url")
	}
	if none.HasAdvisories() {
		t.Error("HasAdvisories() = true without advisory url")
	}

	p := newTestProvider(t, Config{AdvisoryURL: "http://localhost:9000/alerts?lang=en"})
	req, ok := p.AdvisoryRequest(beijing)
	if !ok {
		t.Fatal("AdvisoryRequest() ok = false")
	}
	q := req.URL.Query()
	if q.Get("lang") != "en" || q.Get("latitude") != "39.9042" {
		t.Errorf("advisory query = %v", q)
	}
}

func TestNewProvider_TTLDefaults(t *testing.T) {
	p := newTestProvider(t, Config{TTL: TTLs{Hourly: time.Minute}})

	if p.TTL().Hourly != time.Minute {
		t.Errorf("Hourly = %v, want 1m", p.TTL().Hourly)
	}
	if p.TTL().Current != 300*time.Second {
		t.Errorf("Current = %v, want default 300s", p.TTL().Current)
	}
}

func TestProvider_RequestsValidateBody(t *testing.T) {
	p := newTestProvider(t, Config{AdvisoryURL: "http://localhost/alerts"})
	advisory, _ := p.AdvisoryRequest(beijing)

	tests := []struct {
		name     string
		validate func([]byte) error
		good     string
		bad      string
	}{
		{name: "current", validate: p.CurrentRequest(beijing).Validate, good: testutil.CurrentBody, bad: testutil.DailyBody},
		{name: "hourly", validate: p.HourlyRequest(beijing, 0).Validate, good: testutil.HourlyBody, bad: testutil.CurrentBody},
		{name: "daily", validate: p.DailyRequest(beijing, 0).Validate, good: testutil.DailyBody, bad: testutil.HourlyBody},
		{name: "advisory", validate: advisory.Validate, good: testutil.AdvisoryBody, bad: `{"alerts":"none"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.validate == nil {
				t.Fatal("Validate = nil")
			}
			if err := tt.validate([]byte(tt.good)); err != nil {
				t.Errorf("Validate(good) error = %v", err)
			}
			if err := tt.validate([]byte(tt.bad)); err == nil {
				t.Error("Validate(bad) error = nil, want error")
			}
		})
	}
}
