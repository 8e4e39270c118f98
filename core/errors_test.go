package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAPIError("UPSTREAM", "request failed").Wrap(cause)

	if got := err.Error(); got != "api [UPSTREAM]: request failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should satisfy errors.Is")
	}

	plain := NewValidationError("BAD_INPUT", "field missing")
	if got := plain.Error(); got != "validation [BAD_INPUT]: field missing" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Detail(t *testing.T) {
	err := NewStreamError("SESSION_CLOSED", "operation on closed session").
		WithContext("session_id", "s-1").
		Wrap(errors.New("boom"))

	d := err.Detail()
	if d["kind"] != "stream" || d["code"] != "SESSION_CLOSED" {
		t.Errorf("Detail() = %v", d)
	}
	if d["cause"] != "boom" {
		t.Errorf("Detail() cause = %v", d["cause"])
	}
	ctx, ok := d["context"].(map[string]any)
	if !ok || ctx["session_id"] != "s-1" {
		t.Errorf("Detail() context = %v", d["context"])
	}
}

func TestAsError(t *testing.T) {
	inner := NewConfigurationError("ENV", "missing variable")
	wrapped := fmt.Errorf("loading config: %w", inner)

	se, ok := AsError(wrapped)
	if !ok {
		t.Fatal("expected structured error in chain")
	}
	if se.Kind != ErrConfiguration || se.Code != "ENV" {
		t.Errorf("extracted %+v", se)
	}

	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("plain error should not match")
	}
}
