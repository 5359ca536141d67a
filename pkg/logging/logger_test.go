package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// lines decodes every JSON log line written to buf.
func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}
		out = append(out, fields)
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Level = %q, want %q", cfg.Level, LevelInfo)
	}
	if cfg.Pretty {
		t.Error("Pretty = true, want JSON output by default")
	}
	if cfg.Service != "" {
		t.Errorf("Service = %q, want empty", cfg.Service)
	}
}

func TestSetup_ServiceAndComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf, Service: "weather-pipeline"})

	logger := NewLogger("controller")
	logger.Info().Msg("Controller started")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("log lines = %d, want 1", len(got))
	}
	if got[0]["service"] != "weather-pipeline" {
		t.Errorf("service = %v, want weather-pipeline", got[0]["service"])
	}
	if got[0]["component"] != "controller" {
		t.Errorf("component = %v, want controller", got[0]["component"])
	}
	if _, ok := got[0]["time"]; !ok {
		t.Error("line has no timestamp")
	}
}

func TestSetup_NoServiceField(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Output: buf})
	logger.Info().Msg("Server listening")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("log lines = %d, want 1", len(got))
	}
	if _, ok := got[0]["service"]; ok {
		t.Errorf("service field present without Config.Service: %v", got[0])
	}
}

func TestForSubject(t *testing.T) {
	buf := &bytes.Buffer{}
	base := Setup(Config{Level: LevelInfo, Output: buf, Service: "weather-pipeline"})

	logger := ForSubject(base, "101010100")
	logger.Info().Str("generation", "g-1").Msg("All data ready")

	got := lines(t, buf)
	if len(got) != 1 {
		t.Fatalf("log lines = %d, want 1", len(got))
	}
	if got[0]["subject_id"] != "101010100" {
		t.Errorf("subject_id = %v, want 101010100", got[0]["subject_id"])
	}
	if got[0]["service"] != "weather-pipeline" {
		t.Errorf("service = %v, want it inherited from the base logger", got[0]["service"])
	}
}

// The level guide puts fetch attempts at debug, lifecycle at info, retries
// at warn and exhausted retries at error.
func TestLevelFiltering(t *testing.T) {
	messages := map[zerolog.Level]string{
		zerolog.DebugLevel: "Provider request attempt",
		zerolog.InfoLevel:  "Maintenance sweep completed",
		zerolog.WarnLevel:  "Retry scheduled",
		zerolog.ErrorLevel: "Retry attempts exhausted",
	}

	tests := []struct {
		level LogLevel
		want  []zerolog.Level
	}{
		{LevelDebug, []zerolog.Level{zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel}},
		{LevelInfo, []zerolog.Level{zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel}},
		{LevelWarn, []zerolog.Level{zerolog.WarnLevel, zerolog.ErrorLevel}},
		{LevelError, []zerolog.Level{zerolog.ErrorLevel}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			buf := &bytes.Buffer{}
			Setup(Config{Level: tt.level, Output: buf})

			logger := NewLogger("client")
			logger.Debug().Msg(messages[zerolog.DebugLevel])
			logger.Info().Msg(messages[zerolog.InfoLevel])
			logger.Warn().Msg(messages[zerolog.WarnLevel])
			logger.Error().Msg(messages[zerolog.ErrorLevel])

			output := buf.String()
			for lvl, msg := range messages {
				want := false
				for _, w := range tt.want {
					if w == lvl {
						want = true
					}
				}
				if got := strings.Contains(output, msg); got != want {
					t.Errorf("%s line present = %v, want %v", lvl, got, want)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
		zl    zerolog.Level
	}{
		{"debug", LevelDebug, zerolog.DebugLevel},
		{" Info ", LevelInfo, zerolog.InfoLevel},
		{"warning", LevelWarn, zerolog.WarnLevel},
		{"WARN", LevelWarn, zerolog.WarnLevel},
		{"ERROR", LevelError, zerolog.ErrorLevel},
		{"trace", LevelInfo, zerolog.InfoLevel},
		{"", LevelInfo, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if zl := parseLevel(got); zl != tt.zl {
				t.Errorf("parseLevel(%q) = %v, want %v", got, zl, tt.zl)
			}
		})
	}
}

func TestSetup_PrettyOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})
	logger.Info().Msg("Controller stopped")

	output := buf.String()
	if !strings.Contains(output, "Controller stopped") {
		t.Errorf("output = %q, want the message", output)
	}
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("pretty output looks like JSON: %q", output)
	}
}

func TestSetup_NilOutput(t *testing.T) {
	logger := Setup(Config{Level: LevelError})
	logger.Debug().Msg("discarded")
}
