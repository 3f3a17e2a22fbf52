package nswrapslite

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error type labels carried by WrapError.Type.
const (
	ErrorTypeRetry       = "Retry"
	ErrorTypeCircuitOpen = "CircuitOpen"
	ErrorTypeRateLimit   = "RateLimit"
	ErrorTypePanic       = "Panic"
	ErrorTypeValidation  = "Validation"
	ErrorTypePool        = "Pool"
)

// Sentinel errors for common failure scenarios
var (
	// ErrAttemptsExhausted is returned once a retry policy has used every attempt.
	ErrAttemptsExhausted = errors.New("nswrapslite: retry attempts exhausted")

	// ErrCircuitOpen is returned when the circuit breaker is in open state.
	ErrCircuitOpen = errors.New("nswrapslite: circuit open")

	// ErrRateLimited is returned when a call is denied due to rate limiting.
	ErrRateLimited = errors.New("nswrapslite: rate limited")

	// ErrValidation is wrapped by every failed validation check.
	ErrValidation = errors.New("nswrapslite: validation failed")

	// ErrPoolClosed is returned when submitting to a closed Pool.
	ErrPoolClosed = errors.New("nswrapslite: pool closed")

	// ErrQueueFull is returned when the pool's task queue is at capacity.
	ErrQueueFull = errors.New("nswrapslite: pool queue full")
)

// WrapError is the rich error produced by the stateful wraps. It records
// which wrap failed, the operation name given via WithName, and the
// attempt bookkeeping for retries.
type WrapError struct {
	Type        string
	Op          string
	Message     string
	Attempt     int
	MaxAttempts int
	Timestamp   time.Time
	Duration    time.Duration
	Cause       error
}

// Error implements error interface.
func (e *WrapError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("[%s] %s", e.Op, msg)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxAttempts)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *WrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is. The package sentinels match the
// corresponding WrapError type so callers can test either form.
func (e *WrapError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*WrapError); ok {
		return e.Type == targetErr.Type
	}
	switch target {
	case ErrAttemptsExhausted:
		return e.Type == ErrorTypeRetry
	case ErrCircuitOpen:
		return e.Type == ErrorTypeCircuitOpen
	case ErrRateLimited:
		return e.Type == ErrorTypeRateLimit
	case ErrValidation:
		return e.Type == ErrorTypeValidation
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *WrapError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.Op != "" {
		info += fmt.Sprintf("Op: %s\n", e.Op)
	}
	if e.Attempt > 0 {
		info += fmt.Sprintf("Attempt: %d/%d\n", e.Attempt, e.MaxAttempts)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// validationError folds configuration problems into a single WrapError,
// or nil when there are none.
func validationError(op string, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &WrapError{
		Type:      ErrorTypeValidation,
		Op:        op,
		Message:   "configuration validation failed: " + strings.Join(problems, "; "),
		Timestamp: time.Now(),
	}
}

// PanicError is the error produced when Recovered or a Future captures a
// panic from the wrapped function.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("nswrapslite: recovered panic: %v", e.Value)
}

// IsRetryable reports whether err represents a failure a retry might fix.
// Circuit-open and rate-limit denials are retryable (the guard may clear);
// validation failures and recovered panics are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, ErrValidation) {
		return false
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return false
	}

	var wrapErr *WrapError
	if errors.As(err, &wrapErr) {
		switch wrapErr.Type {
		case ErrorTypeCircuitOpen, ErrorTypeRateLimit:
			return true
		default:
			return false
		}
	}

	return true
}
