// Package backoff computes inter-attempt delays for the retry wrap.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy defines the interface for backoff calculation algorithms.
type Strategy interface {
	// Calculate returns the delay before the given retry attempt.
	// attempt is 1-based: the delay after the first failure uses attempt 1.
	Calculate(attempt int, base, max time.Duration, multiplier, jitter float64) time.Duration
}

// ExponentialJitter implements exponential backoff with uniform jitter:
// base * multiplier^(attempt-1), scaled by a random factor in [1-jitter, 1+jitter].
type ExponentialJitter struct{}

func (ExponentialJitter) Calculate(attempt int, base, max time.Duration, multiplier, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// Clamp the exponent so the float math cannot overflow.
	if attempt > 31 {
		attempt = 31
	}

	delay := time.Duration(float64(base) * pow(multiplier, attempt-1))
	if delay < 0 || delay > max {
		delay = max
	}

	jitter = clampJitter(jitter)
	if jitter > 0 {
		factor := 1 + jitter*(2*rand.Float64()-1)
		delay = time.Duration(float64(delay) * factor)
		if delay < 0 || delay > max {
			delay = max
		}
	}
	return delay
}

// DecorrelatedJitter implements decorrelated jitter per the AWS
// architecture blog: random_between(base, min(max, base * 3^attempt)).
// Stateless approximation, so the 3x factor is applied to the attempt
// number rather than the previous delay.
type DecorrelatedJitter struct{}

func (DecorrelatedJitter) Calculate(attempt int, base, max time.Duration, multiplier, jitter float64) time.Duration {
	if attempt <= 1 {
		return base
	}
	if attempt > 10 {
		attempt = 10
	}

	lower := float64(base)
	upper := lower * pow(3.0, attempt-1)

	maxFloat := float64(max)
	if upper > maxFloat || upper < 0 {
		upper = maxFloat
	}
	if upper < lower {
		upper = lower
	}

	delay := time.Duration(lower + rand.Float64()*(upper-lower))
	if delay < 0 || delay > max {
		delay = max
	}
	return delay
}

// clampJitter ensures jitter is within valid bounds [0, 1].
func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// pow calculates base^exponent by repeated multiplication; exponents here
// are small and non-negative.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}

// Pow exposes pow for callers that pre-compute delay bounds.
func Pow(base float64, exponent int) float64 {
	return pow(base, exponent)
}
