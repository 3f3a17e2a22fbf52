package nswrapslite

import (
	"context"
	"time"

	internalbackoff "github.com/sandorn/nswrapslite/internal/backoff"
)

// BackoffStrategy selects the delay curve between attempts.
type BackoffStrategy int

const (
	// ExponentialJitter grows the delay by Multiplier each attempt with
	// uniform jitter applied.
	ExponentialJitter BackoffStrategy = iota
	// DecorrelatedJitter applies AWS-style decorrelated jitter.
	DecorrelatedJitter
)

// NoJitter disables jitter explicitly; a Jitter of 0 means "use default".
const NoJitter = -1.0

// RetryConfig holds retry wrap configuration. Zero values take defaults:
// 3 attempts, 1s initial delay, 30s cap, 2.0 multiplier, 0.1 jitter.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      float64
	Strategy    BackoffStrategy

	// RetryIf decides whether an error is worth another attempt.
	// Defaults to IsRetryable.
	RetryIf func(err error) bool

	// OnRetry runs before sleeping for the next attempt.
	OnRetry func(attempt int, delay time.Duration, err error)
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Delay == 0 {
		cfg.Delay = time.Second
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = 0.1
	} else if cfg.Jitter == NoJitter {
		cfg.Jitter = 0
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = IsRetryable
	}
	return cfg
}

// RetryPolicy applies bounded, delayed re-invocation to wrapped calls.
// A single policy may wrap any number of functions concurrently.
type RetryPolicy struct {
	cfg             RetryConfig
	strategy        internalbackoff.Strategy
	settings        *settings
	validationError error
}

// NewRetryPolicy builds a policy from cfg, applying defaults for zero
// fields. Call Validate for configuration errors.
func NewRetryPolicy(cfg RetryConfig, opts ...Option) *RetryPolicy {
	p := &RetryPolicy{
		cfg:      cfg.withDefaults(),
		settings: newSettings(opts...),
	}
	switch p.cfg.Strategy {
	case DecorrelatedJitter:
		p.strategy = internalbackoff.DecorrelatedJitter{}
	default:
		p.strategy = internalbackoff.ExponentialJitter{}
	}
	p.validationError = p.validate()
	return p
}

func (p *RetryPolicy) validate() error {
	var problems []string

	if p.cfg.MaxAttempts < 1 {
		problems = append(problems, "MaxAttempts must be at least 1")
	}
	if p.cfg.MaxAttempts > 100 {
		problems = append(problems, "MaxAttempts > 100 may cause excessive resource usage")
	}
	if p.cfg.Delay < 0 {
		problems = append(problems, "Delay must be non-negative")
	}
	if p.cfg.MaxDelay < p.cfg.Delay {
		problems = append(problems, "MaxDelay must be greater than or equal to Delay")
	}
	if p.cfg.Multiplier < 1 {
		problems = append(problems, "Multiplier must be at least 1")
	}
	if p.cfg.Jitter < 0 || p.cfg.Jitter > 1 {
		problems = append(problems, "Jitter must be between 0 and 1")
	}

	return validationError(p.settings.name, problems)
}

// Validate reports the configuration error recorded at construction, if any.
func (p *RetryPolicy) Validate() error {
	return p.validationError
}

// NextDelay returns the delay to sleep after the given failed attempt
// (1-based).
func (p *RetryPolicy) NextDelay(attempt int) time.Duration {
	return p.strategy.Calculate(attempt, p.cfg.Delay, p.cfg.MaxDelay, p.cfg.Multiplier, p.cfg.Jitter)
}

// Retry wraps fn so each call is attempted up to MaxAttempts times. Every
// error passes through RetryIf; attempts exhausted yields a
// *WrapError{Type: ErrorTypeRetry} matching ErrAttemptsExhausted and
// unwrapping to the final attempt's error. Sleeps between attempts honor
// ctx cancellation.
func Retry[T any](p *RetryPolicy, fn Func[T]) Func[T] {
	return RetryValue(p, fn, nil)
}

// RetryValue behaves like Retry but additionally re-invokes when
// retryable(v, nil) reports the successful result itself warrants another
// attempt. The last observed value is returned once attempts run out.
// A policy with an invalid configuration fails every call with its
// validation error instead of running fn.
func RetryValue[T any](p *RetryPolicy, fn Func[T], retryable func(v T, err error) bool) Func[T] {
	return func(ctx context.Context) (T, error) {
		if p.validationError != nil {
			var zero T
			return zero, p.validationError
		}

		var (
			lastVal T
			lastErr error
		)
		start := p.settings.now()
		callID := ""
		if p.settings.debugEnabled() {
			callID = p.settings.callID()
		}

		for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
			if attempt > 1 {
				p.settings.metrics.RecordRetry(p.settings.name, attempt)
				if p.settings.debugEnabled() && p.settings.debug.LogRetries {
					p.settings.logger.Info("Retry attempt",
						"callID", callID, "name", p.settings.name,
						"attempt", attempt, "maxAttempts", p.cfg.MaxAttempts)
				}
			}

			lastVal, lastErr = fn(ctx)

			if lastErr == nil {
				if retryable == nil || !retryable(lastVal, nil) {
					return lastVal, nil
				}
			} else if !p.cfg.RetryIf(lastErr) {
				return lastVal, lastErr
			}

			if attempt == p.cfg.MaxAttempts {
				break
			}

			delay := p.NextDelay(attempt)
			if p.cfg.OnRetry != nil {
				p.cfg.OnRetry(attempt, delay, lastErr)
			}
			if p.settings.debugEnabled() && p.settings.debug.LogRetries {
				p.settings.logger.Debug("Scheduling retry",
					"callID", callID, "name", p.settings.name,
					"attempt", attempt+1, "backoff", delay)
			}
			if err := sleepContext(ctx, delay); err != nil {
				return lastVal, err
			}
		}

		if lastErr == nil {
			// Result-based retry ran out of attempts on a "bad" value.
			return lastVal, nil
		}

		return lastVal, &WrapError{
			Type:        ErrorTypeRetry,
			Op:          p.settings.name,
			Message:     "retry attempts exhausted",
			Attempt:     p.cfg.MaxAttempts,
			MaxAttempts: p.cfg.MaxAttempts,
			Timestamp:   p.settings.now(),
			Duration:    p.settings.now().Sub(start),
			Cause:       lastErr,
		}
	}
}

// Try is a convenience for one-off calls: Retry(p, fn)(ctx).
func Try[T any](ctx context.Context, p *RetryPolicy, fn Func[T]) (T, error) {
	return Retry(p, fn)(ctx)
}

// sleepContext sleeps for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
