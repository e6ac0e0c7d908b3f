package logging

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(LoggerConfig{Level: level, Output: &buf, Prefix: "test"}), &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newTestLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("visible warn")
	l.Error("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages:\n%s", out)
	}
	if !strings.Contains(out, "visible warn") || !strings.Contains(out, "visible error") {
		t.Errorf("output missing enabled messages:\n%s", out)
	}
}

func TestFormatting(t *testing.T) {
	l, buf := newTestLogger(LogLevelInfo)

	l.Info("loaded %d pages", 3)

	out := buf.String()
	if !strings.Contains(out, "[INFO] test: loaded 3 pages") {
		t.Errorf("unexpected line format: %q", out)
	}
}

func TestFieldsSortedAndInherited(t *testing.T) {
	l, buf := newTestLogger(LogLevelInfo)

	l.WithComponent("dispatch").WithField("session", "abc").Info("go")

	out := buf.String()
	if !strings.Contains(out, "{component=dispatch, session=abc}") {
		t.Errorf("fields missing or unsorted: %q", out)
	}

	// The derived logger must not mutate its parent.
	buf.Reset()
	l.Info("plain")
	if strings.Contains(buf.String(), "component=") {
		t.Errorf("parent logger inherited child fields: %q", buf.String())
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newTestLogger(LogLevelError)

	l.Info("early")
	l.SetLevel(LogLevelInfo)
	l.Info("late")

	out := buf.String()
	if strings.Contains(out, "early") {
		t.Error("message logged below level")
	}
	if !strings.Contains(out, "late") {
		t.Error("message missing after SetLevel")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"Error", LogLevelError},
		{"nonsense", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNullLoggerIsSilent(t *testing.T) {
	// Must not panic and must not write anywhere.
	NullLogger.Error("into the void")
	NullLogger.WithComponent("x").Info("still nothing")
}
