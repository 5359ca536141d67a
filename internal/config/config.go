// Package config loads pipeline settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	maxPortNumber = 65535
	maxRedisDB    = 15
)

// ConfigurationError reports an invalid or unreadable setting.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Message, e.Cause)
	}
	return "configuration: " + e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

func newConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{Message: message, Cause: cause}
}

// Config is the full pipeline configuration.
type Config struct {
	Server     ServerConfig     `split_words:"true"`
	Provider   ProviderConfig   `split_words:"true"`
	Fetch      FetchConfig      `split_words:"true"`
	Cache      CacheConfig      `split_words:"true"`
	Controller ControllerConfig `split_words:"true"`
	Database   DatabaseConfig   `split_words:"true"`
	Redis      RedisConfig      `split_words:"true"`
	Log        LogConfig        `split_words:"true"`
}

type ServerConfig struct {
	Port int `envconfig:"PORT" default:"8080"`
}

type ProviderConfig struct {
	BaseURL     string `envconfig:"WEATHER_BASE_URL" default:"https://api.open-meteo.com/v1"`
	AdvisoryURL string `envconfig:"WEATHER_ADVISORY_URL"`
	UserAgent   string `envconfig:"WEATHER_USER_AGENT" default:"weather-pipeline/0.1.0"`
}

type FetchConfig struct {
	TimeoutMS       int     `envconfig:"FETCH_TIMEOUT_MS" default:"15000"`
	MaxRetries      int     `envconfig:"FETCH_MAX_RETRIES" default:"3"`
	BaseDelayMS     int     `envconfig:"FETCH_BASE_DELAY_MS" default:"1000"`
	RateLimitRPS    float64 `envconfig:"FETCH_RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst  int     `envconfig:"FETCH_RATE_LIMIT_BURST" default:"1"`
	BreakerEnabled  bool    `envconfig:"FETCH_BREAKER_ENABLED" default:"false"`
	BreakerFailures uint32  `envconfig:"FETCH_BREAKER_FAILURES" default:"5"`
	BreakerOpenMS   int     `envconfig:"FETCH_BREAKER_OPEN_MS" default:"30000"`
}

// Timeout is the per-attempt deadline.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutMS) * time.Millisecond
}

// BaseDelay is the linear retry step.
func (f FetchConfig) BaseDelay() time.Duration {
	return time.Duration(f.BaseDelayMS) * time.Millisecond
}

// BreakerOpen is how long an open breaker rejects requests.
func (f FetchConfig) BreakerOpen() time.Duration {
	return time.Duration(f.BreakerOpenMS) * time.Millisecond
}

type CacheConfig struct {
	Capacity          int  `envconfig:"CACHE_CAPACITY" default:"100"`
	TTLCurrentSeconds int  `envconfig:"CACHE_TTL_CURRENT_SECONDS" default:"300"`
	TTLHourlySeconds  int  `envconfig:"CACHE_TTL_HOURLY_SECONDS" default:"600"`
	TTLDailySeconds   int  `envconfig:"CACHE_TTL_DAILY_SECONDS" default:"1800"`
	SingleFlight      bool `envconfig:"CACHE_SINGLE_FLIGHT" default:"true"`
}

type ControllerConfig struct {
	MaintenanceIntervalMS int `envconfig:"MAINTENANCE_INTERVAL_MS" default:"300000"`
	NotificationBuffer    int `envconfig:"NOTIFICATION_BUFFER" default:"64"`
}

// MaintenanceInterval is the cache sweep period.
func (c ControllerConfig) MaintenanceInterval() time.Duration {
	return time.Duration(c.MaintenanceIntervalMS) * time.Millisecond
}

type DatabaseConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"DB_DSN" default:"weather.db"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Enabled reports whether a preference store is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads the optional env files and then the environment.
// Missing env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, newConfigurationError("error loading env file", err)
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, newConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	validators := []func() error{
		c.Server.Validate,
		c.Provider.Validate,
		c.Fetch.Validate,
		c.Cache.Validate,
		c.Controller.Validate,
		c.Database.Validate,
		c.Redis.Validate,
		c.Log.Validate,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return newConfigurationError("PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (p *ProviderConfig) Validate() error {
	if !isHTTPURL(p.BaseURL) {
		return newConfigurationError("WEATHER_BASE_URL must start with http:// or https://", nil)
	}
	if p.AdvisoryURL != "" && !isHTTPURL(p.AdvisoryURL) {
		return newConfigurationError("WEATHER_ADVISORY_URL must start with http:// or https://", nil)
	}
	if strings.TrimSpace(p.UserAgent) == "" {
		return newConfigurationError("WEATHER_USER_AGENT cannot be empty", nil)
	}
	return nil
}

func (f *FetchConfig) Validate() error {
	if f.TimeoutMS <= 0 {
		return newConfigurationError("FETCH_TIMEOUT_MS must be positive", nil)
	}
	if f.MaxRetries < 0 {
		return newConfigurationError("FETCH_MAX_RETRIES cannot be negative", nil)
	}
	if f.BaseDelayMS < 0 {
		return newConfigurationError("FETCH_BASE_DELAY_MS cannot be negative", nil)
	}
	if f.RateLimitRPS < 0 {
		return newConfigurationError("FETCH_RATE_LIMIT_RPS cannot be negative", nil)
	}
	if f.RateLimitRPS > 0 && f.RateLimitBurst < 1 {
		return newConfigurationError("FETCH_RATE_LIMIT_BURST must be at least 1", nil)
	}
	if f.BreakerEnabled {
		if f.BreakerFailures == 0 {
			return newConfigurationError("FETCH_BREAKER_FAILURES must be positive", nil)
		}
		if f.BreakerOpenMS <= 0 {
			return newConfigurationError("FETCH_BREAKER_OPEN_MS must be positive", nil)
		}
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if c.Capacity < 1 {
		return newConfigurationError("CACHE_CAPACITY must be at least 1", nil)
	}
	if c.TTLCurrentSeconds <= 0 || c.TTLHourlySeconds <= 0 || c.TTLDailySeconds <= 0 {
		return newConfigurationError("CACHE_TTL_*_SECONDS must be positive", nil)
	}
	return nil
}

func (c *ControllerConfig) Validate() error {
	if c.MaintenanceIntervalMS <= 0 {
		return newConfigurationError("MAINTENANCE_INTERVAL_MS must be positive", nil)
	}
	if c.NotificationBuffer < 1 {
		return newConfigurationError("NOTIFICATION_BUFFER must be at least 1", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	switch strings.ToLower(d.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return newConfigurationError(fmt.Sprintf("DB_DRIVER %q is not supported", d.Driver), nil)
	}
	if d.DSN == "" {
		return newConfigurationError("DB_DSN cannot be empty", nil)
	}
	return nil
}

func (r *RedisConfig) Validate() error {
	if r.DB < 0 || r.DB > maxRedisDB {
		return newConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	return nil
}

func (l *LogConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	}
	return newConfigurationError(fmt.Sprintf("LOG_LEVEL %q is not supported", l.Level), nil)
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
