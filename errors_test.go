package nswrapslite

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestWrapErrorError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &WrapError{
		Type:        ErrorTypeRetry,
		Op:          "fetch-user",
		Message:     "all attempts failed",
		Attempt:     3,
		MaxAttempts: 3,
		Cause:       cause,
	}

	msg := err.Error()
	for _, part := range []string{"[fetch-user]", "Retry: all attempts failed", "(attempt 3/3)", "connection refused"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Expected %q in %q", part, msg)
		}
	}
}

func TestWrapErrorErrorMinimal(t *testing.T) {
	err := &WrapError{Type: ErrorTypeValidation, Message: "bad value"}
	if got := err.Error(); got != "Validation: bad value" {
		t.Errorf("Unexpected message: %q", got)
	}

	var nilErr *WrapError
	if nilErr.Error() != "<nil>" {
		t.Error("Nil receiver should render <nil>")
	}
}

func TestWrapErrorUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := &WrapError{Type: ErrorTypeRetry, Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Expected Unwrap to return the cause")
	}
}

func TestWrapErrorIsMatchesType(t *testing.T) {
	a := &WrapError{Type: ErrorTypeRetry, Message: "one"}
	b := &WrapError{Type: ErrorTypeRetry, Message: "other"}
	c := &WrapError{Type: ErrorTypePanic}

	if !errors.Is(a, b) {
		t.Error("Same-type WrapErrors should match")
	}
	if errors.Is(a, c) {
		t.Error("Different-type WrapErrors should not match")
	}
}

func TestWrapErrorIsMatchesSentinels(t *testing.T) {
	cases := []struct {
		typ      string
		sentinel error
	}{
		{ErrorTypeRetry, ErrAttemptsExhausted},
		{ErrorTypeCircuitOpen, ErrCircuitOpen},
		{ErrorTypeRateLimit, ErrRateLimited},
		{ErrorTypeValidation, ErrValidation},
	}
	for _, tc := range cases {
		err := &WrapError{Type: tc.typ}
		if !errors.Is(err, tc.sentinel) {
			t.Errorf("Type %s should match its sentinel", tc.typ)
		}
	}

	if errors.Is(&WrapError{Type: ErrorTypeRetry}, ErrCircuitOpen) {
		t.Error("Retry error should not match the circuit sentinel")
	}
}

func TestWrapErrorDebugInfo(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := &WrapError{
		Type:        ErrorTypeRetry,
		Op:          "sync",
		Message:     "gave up",
		Attempt:     2,
		MaxAttempts: 5,
		Timestamp:   ts,
		Duration:    150 * time.Millisecond,
		Cause:       errors.New("timeout"),
	}

	info := err.DebugInfo()
	for _, part := range []string{
		"Error Type: Retry",
		"Message: gave up",
		"Op: sync",
		"Attempt: 2/5",
		"Timestamp: 2024-03-01T12:00:00Z",
		"Duration: 150ms",
		"Cause: timeout",
	} {
		if !strings.Contains(info, part) {
			t.Errorf("Expected %q in debug info:\n%s", part, info)
		}
	}
}

func TestValidationError(t *testing.T) {
	if validationError("op", nil) != nil {
		t.Error("No problems should yield nil")
	}

	err := validationError("retry", []string{"MaxAttempts must be positive", "Delay must be non-negative"})
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("Expected a validation error")
	}
	if !strings.Contains(err.Error(), "MaxAttempts must be positive; Delay must be non-negative") {
		t.Errorf("Expected joined problems, got %q", err.Error())
	}
}

func TestPanicErrorMessage(t *testing.T) {
	err := &PanicError{Value: "boom"}
	if !strings.Contains(err.Error(), "recovered panic: boom") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("transient"), true},
		{"wrapped plain error", fmt.Errorf("ctx: %w", errors.New("transient")), true},
		{"circuit open", &WrapError{Type: ErrorTypeCircuitOpen}, true},
		{"rate limited", &WrapError{Type: ErrorTypeRateLimit}, true},
		{"circuit sentinel", ErrCircuitOpen, true},
		{"validation", &WrapError{Type: ErrorTypeValidation}, false},
		{"exhausted retry", &WrapError{Type: ErrorTypeRetry}, false},
		{"panic", &PanicError{Value: "x"}, false},
		{"wrapped panic", fmt.Errorf("call: %w", &PanicError{Value: "x"}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
