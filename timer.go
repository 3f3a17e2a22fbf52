package nswrapslite

import (
	"context"
	"time"
)

// Timed wraps fn so every call reports its elapsed wall-clock time to the
// configured Logger and duration histogram. Reporting is the wrap's whole
// purpose, so log lines are gated only on a Logger being set, not on the
// debug flags.
func Timed[T any](fn Func[T], opts ...Option) Func[T] {
	s := newSettings(opts...)
	return func(ctx context.Context) (T, error) {
		start := s.now()
		s.metrics.RecordCallStart("timer", s.name)

		v, err := fn(ctx)

		elapsed := s.now().Sub(start)
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.metrics.RecordCall("timer", s.name, outcome, elapsed)

		if s.logger != nil {
			if err != nil {
				s.logger.Error("Call failed", "name", s.name, "elapsed", elapsed, "error", err.Error())
			} else {
				s.logger.Info("Call completed", "name", s.name, "elapsed", elapsed)
			}
		}
		return v, err
	}
}

// Stopwatch measures a code block, the way Timed measures a function.
// Create one at the top of the block and Stop it when done:
//
//	sw := nswrapslite.NewStopwatch(nswrapslite.WithName("rebuild-index"))
//	defer sw.Stop()
type Stopwatch struct {
	start    time.Time
	settings *settings
}

// NewStopwatch starts a stopwatch immediately.
func NewStopwatch(opts ...Option) *Stopwatch {
	s := newSettings(opts...)
	return &Stopwatch{start: s.now(), settings: s}
}

// Elapsed returns the time since the stopwatch started.
func (w *Stopwatch) Elapsed() time.Duration {
	return w.settings.now().Sub(w.start)
}

// Restart resets the start time and returns the previous elapsed duration.
func (w *Stopwatch) Restart() time.Duration {
	elapsed := w.Elapsed()
	w.start = w.settings.now()
	return elapsed
}

// Stop reports the elapsed duration to the logger and histogram and
// returns it. The stopwatch keeps running; Stop may be called again.
func (w *Stopwatch) Stop() time.Duration {
	elapsed := w.Elapsed()
	w.settings.metrics.RecordCallStart("stopwatch", w.settings.name)
	w.settings.metrics.RecordCall("stopwatch", w.settings.name, "success", elapsed)
	if w.settings.logger != nil {
		w.settings.logger.Info("Block completed", "name", w.settings.name, "elapsed", elapsed)
	}
	return elapsed
}
