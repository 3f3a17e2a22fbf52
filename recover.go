package nswrapslite

import (
	"context"
	"runtime/debug"
)

// Recovered wraps fn so a panic surfaces as a *PanicError instead of
// unwinding the caller's stack. Ordinary errors pass through untouched.
func Recovered[T any](fn Func[T], opts ...Option) Func[T] {
	s := newSettings(opts...)
	return func(ctx context.Context) (v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
				s.metrics.RecordPanicRecovered(s.name)
				if s.logger != nil {
					s.logger.Error("Recovered panic", "name", s.name, "panic", r)
				}
			}
		}()
		return fn(ctx)
	}
}

// Fallback wraps fn so any error or panic is suppressed and fallback is
// returned instead. This is the suppress-and-return-default policy; use
// Recovered alone for the re-raise-as-error policy.
func Fallback[T any](fn Func[T], fallback T, opts ...Option) Func[T] {
	s := newSettings(opts...)
	protected := Recovered(fn, opts...)
	return func(ctx context.Context) (T, error) {
		v, err := protected(ctx)
		if err == nil {
			return v, nil
		}
		if s.debugEnabled() && s.debug.LogErrors {
			s.logger.Warn("Returning fallback value",
				"name", s.name, "error", err.Error())
		}
		return fallback, nil
	}
}
