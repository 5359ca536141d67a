package weather

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/client"
)

// DefaultBaseURL is the public Open-Meteo API root.
const DefaultBaseURL = "https://api.open-meteo.com/v1"

// Forecast horizon defaults and limits.
const (
	DefaultHours = 24
	MaxHours     = 384
	DefaultDays  = 7
	MaxDays      = 16
)

var (
	currentVariables = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature",
		"weather_code", "surface_pressure", "wind_speed_10m", "wind_direction_10m",
		"uv_index",
	}
	hourlyVariables = []string{
		"temperature_2m", "relative_humidity_2m", "weather_code",
		"wind_speed_10m", "wind_direction_10m", "precipitation_probability",
	}
	dailyVariables = []string{
		"temperature_2m_max", "temperature_2m_min", "weather_code",
		"wind_speed_10m_max", "wind_direction_10m_dominant",
		"precipitation_probability_max", "uv_index_max", "sunrise", "sunset",
	}
)

// TTLs holds the cache lifetime per dataset.
type TTLs struct {
	Current  time.Duration
	Hourly   time.Duration
	Daily    time.Duration
	Advisory time.Duration
}

// DefaultTTLs returns the default cache lifetimes.
func DefaultTTLs() TTLs {
	return TTLs{
		Current:  300 * time.Second,
		Hourly:   600 * time.Second,
		Daily:    1800 * time.Second,
		Advisory: 600 * time.Second,
	}
}

// Config holds provider configuration.
type Config struct {
	// BaseURL is the forecast API root (default: DefaultBaseURL)
	BaseURL string

	// AdvisoryURL is the warnings endpoint; empty means no advisories
	AdvisoryURL string

	// TTL per dataset; zero fields take DefaultTTLs
	TTL TTLs
}

// Provider builds requests against the forecast API.
type Provider struct {
	base     *url.URL
	advisory *url.URL
	ttl      TTLs
}

// NewProvider creates a provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	defaults := DefaultTTLs()
	if cfg.TTL.Current <= 0 {
		cfg.TTL.Current = defaults.Current
	}
	if cfg.TTL.Hourly <= 0 {
		cfg.TTL.Hourly = defaults.Hourly
	}
	if cfg.TTL.Daily <= 0 {
		cfg.TTL.Daily = defaults.Daily
	}
	if cfg.TTL.Advisory <= 0 {
		cfg.TTL.Advisory = defaults.Advisory
	}

	p := &Provider{base: base, ttl: cfg.TTL}
	if cfg.AdvisoryURL != "" {
		adv, err := url.Parse(cfg.AdvisoryURL)
		if err != nil || adv.Scheme == "" || adv.Host == "" {
			return nil, fmt.Errorf("invalid advisory url %q", cfg.AdvisoryURL)
		}
		p.advisory = adv
	}
	return p, nil
}

// TTL returns the configured cache lifetimes.
func (p *Provider) TTL() TTLs {
	return p.ttl
}

// HasAdvisories reports whether an advisory endpoint is configured.
func (p *Provider) HasAdvisories() bool {
	return p.advisory != nil
}

// CurrentRequest builds the current-conditions request for loc.
func (p *Provider) CurrentRequest(loc Location) client.Request {
	q := coordinates(loc)
	q.Set("current", strings.Join(currentVariables, ","))
	q.Set("timezone", "auto")
	req := p.forecast(q)
	req.Validate = func(payload []byte) error {
		_, err := DecodeCurrent(loc.ID, payload)
		return err
	}
	return req
}

// HourlyRequest builds an hourly forecast request. A non-positive hours
// selects DefaultHours.
func (p *Provider) HourlyRequest(loc Location, hours int) client.Request {
	q := coordinates(loc)
	q.Set("hourly", strings.Join(hourlyVariables, ","))
	q.Set("forecast_hours", strconv.Itoa(ClampHours(hours)))
	q.Set("timezone", "auto")
	req := p.forecast(q)
	req.Validate = func(payload []byte) error {
		_, err := DecodeHourly(payload, ClampHours(hours))
		return err
	}
	return req
}

// DailyRequest builds a daily forecast request. A non-positive days
// selects DefaultDays.
func (p *Provider) DailyRequest(loc Location, days int) client.Request {
	q := coordinates(loc)
	q.Set("daily", strings.Join(dailyVariables, ","))
	q.Set("forecast_days", strconv.Itoa(ClampDays(days)))
	q.Set("timezone", "auto")
	req := p.forecast(q)
	req.Validate = func(payload []byte) error {
		_, err := DecodeDaily(payload, ClampDays(days))
		return err
	}
	return req
}

// AdvisoryRequest builds the advisory request, if an endpoint is configured.
func (p *Provider) AdvisoryRequest(loc Location) (client.Request, bool) {
	if p.advisory == nil {
		return client.Request{}, false
	}
	u := *p.advisory
	q := u.Query()
	for k, v := range coordinates(loc) {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return client.Request{URL: &u, Validate: validateAdvisories}, true
}

func validateAdvisories(payload []byte) error {
	_, err := DecodeAdvisories(payload)
	return err
}

func (p *Provider) forecast(q url.Values) client.Request {
	u := *p.base
	u.Path = u.Path + "/forecast"
	u.RawQuery = q.Encode()
	return client.Request{URL: &u}
}

func coordinates(loc Location) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	return q
}

// ClampHours normalizes an hourly horizon.
func ClampHours(hours int) int {
	switch {
	case hours <= 0:
		return DefaultHours
	case hours > MaxHours:
		return MaxHours
	}
	return hours
}

// ClampDays normalizes a daily horizon.
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultDays
	case days > MaxDays:
		return MaxDays
	}
	return days
}
