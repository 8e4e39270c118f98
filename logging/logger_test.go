package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*AgentLogger)(nil)
	_ Logger = NoOpLogger{}
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"DEBUG":   LogLevelDebug,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"info":    LogLevelInfo,
		"bogus":   LogLevelInfo,
		"":        LogLevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAgentLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: LogLevelWarn, Format: "text", Output: &buf})

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("visible warning")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("low-level messages leaked: %s", out)
	}
	if !strings.Contains(out, "visible warning") {
		t.Errorf("warning missing from output: %s", out)
	}
}

func TestAgentLogger_ContextualAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.WithComponent("agent").
		WithSession("web-1", "s-123").
		WithContext("request_id", "r-1").
		Info("processing", "selector", "basic")

	out := buf.String()
	for _, want := range []string{
		`"component":"agent"`,
		`"channel":"web-1"`,
		`"session_id":"s-123"`,
		`"request_id":"r-1"`,
		`"selector":"basic"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestAgentLogger_CloningDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})
	_ = parent.WithContext("child_only", "yes")

	parent.Info("from parent")
	if strings.Contains(buf.String(), "child_only") {
		t.Errorf("parent logger inherited child context: %s", buf.String())
	}
}

func TestAgentLogger_ErrorWithStack(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: LogLevelError, Format: "json", Output: &buf})

	l.ErrorWithStack(errors.New("boom"), "unexpected failure")

	out := buf.String()
	if !strings.Contains(out, "stack_trace") || !strings.Contains(out, "boom") {
		t.Errorf("stack trace entry malformed: %s", out)
	}
}

func TestStartTimer(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})

	stop := l.StartTimer("demo_op")
	stop()

	out := buf.String()
	if !strings.Contains(out, "demo_op") || !strings.Contains(out, "duration") {
		t.Errorf("timer entry malformed: %s", out)
	}
}
