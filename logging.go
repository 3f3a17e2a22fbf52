package nswrapslite

import (
	"context"
)

// Logged wraps fn so invocations, results and failures are logged through
// the configured Logger. Which events emit is controlled by the
// DebugConfig flags: LogCalls at call start, LogResults on success,
// LogErrors on failure. Without WithDebug (or WithSimpleLogger) the wrap
// is a pass-through.
func Logged[T any](fn Func[T], opts ...Option) Func[T] {
	s := newSettings(opts...)
	return func(ctx context.Context) (T, error) {
		if !s.debugEnabled() {
			return fn(ctx)
		}

		callID := s.callID()
		if s.debug.LogCalls {
			s.logger.Debug("Call starting", "callID", callID, "name", s.name)
		}

		start := s.now()
		v, err := fn(ctx)
		elapsed := s.now().Sub(start)

		if err != nil {
			if s.debug.LogErrors {
				s.logger.Error("Call failed",
					"callID", callID, "name", s.name,
					"elapsed", elapsed, "error", err.Error())
			}
			return v, err
		}

		if s.debug.LogResults {
			s.logger.Info("Call succeeded",
				"callID", callID, "name", s.name,
				"elapsed", elapsed, "result", v)
		}
		return v, nil
	}
}
