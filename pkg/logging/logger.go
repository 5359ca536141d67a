// Package logging configures zerolog for the weather pipeline.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs cache lookups and every fetch attempt.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs lifecycle events and completed batches.
	LevelInfo LogLevel = "info"

	// LevelWarn logs retries and failed tasks.
	LevelWarn LogLevel = "warn"

	// LevelError logs terminal failures only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer

	// Service is added to every line when set.
	Service string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()

	log.Logger = logger

	return logger
}

// ParseLevel converts a configuration string to a LogLevel.
// Unknown values map to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch ParseLevel(string(level)) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForSubject derives a logger tagged with a subject id.
func ForSubject(logger zerolog.Logger, subjectID string) zerolog.Logger {
	return logger.With().Str("subject_id", subjectID).Logger()
}

// Log Level Guidelines:
//
// Debug: per-request detail
//   - Cache hit/miss/store (fingerprint, ttl)
//   - Each fetch attempt (attempt, status_code, duration)
//   - Task start/finish, location resolution
//
// Info: lifecycle
//   - Controller start/stop, maintenance sweeps
//   - AllDataReady per batch
//   - Server startup/shutdown
//
// Warn: degraded but continuing
//   - Retry scheduled (attempt, delay)
//   - Task failed (error notification emitted)
//   - Location or preference lookup failed, fallback used
//
// Error: needs attention
//   - Retries exhausted
//   - Configuration or storage errors at startup
//
// Context Fields:
//   - component: package emitting the line
//   - subject_id: city / subject identifier
//   - fingerprint: cache key of the request
//   - attempt: 1-based attempt number
//   - kind: error kind (timeout, transport, decode, provider, retries_exhausted)
//   - removed: entries purged by maintenance
