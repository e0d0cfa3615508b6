package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func jsonLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(LoggingConfig{Level: level, Format: "json"}, &buf)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestLoggerFields(t *testing.T) {
	l, buf := jsonLogger("debug")

	l.NewComponentLogger("storage").
		WithBackend("sqlite").
		WithOperation("set").
		WithKey("custom_theme").
		WithError(errors.New("boom")).
		Warn("write failed")

	m := decodeLine(t, buf)
	want := map[string]string{
		"level":     "warn",
		"component": "storage",
		"backend":   "sqlite",
		"operation": "set",
		"key":       "custom_theme",
		"error":     "boom",
		"message":   "write failed",
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("field %s = %v, want %q", k, m[k], v)
		}
	}
}

func TestLoggerLevel(t *testing.T) {
	l, buf := jsonLogger("warn")

	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}

	l.Error("shown")
	if buf.Len() == 0 {
		t.Fatal("expected error line")
	}
}

func TestLoggerContext(t *testing.T) {
	l, buf := jsonLogger("info")

	ctx := l.WithContext(context.Background())
	FromContext(ctx).Info("from context")
	if buf.Len() == 0 {
		t.Fatal("expected logger from context to write")
	}

	// A bare context yields a discarding logger rather than nil.
	FromContext(context.Background()).Info("dropped")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"bogus", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
