package nswrapslite

import (
	"context"
	"sync/atomic"
	"time"
)

// RateLimiter is a CAS-based token bucket. Tokens refill lazily on Allow
// at one token per refillRate elapsed.
type RateLimiter struct {
	tokens     int64
	maxTokens  int64
	refillRate time.Duration
	lastRefill int64

	settings *settings
}

// NewRateLimiter creates a full bucket of maxTokens refilling one token
// every refillRate.
func NewRateLimiter(maxTokens int, refillRate time.Duration, opts ...Option) *RateLimiter {
	return &RateLimiter{
		maxTokens:  int64(maxTokens),
		tokens:     int64(maxTokens),
		refillRate: refillRate,
		lastRefill: time.Now().UnixNano(),
		settings:   newSettings(opts...),
	}
}

// Allow consumes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.refillTokens()
	return rl.consumeToken()
}

// Tokens returns the current token count.
func (rl *RateLimiter) Tokens() int {
	rl.refillTokens()
	return int(atomic.LoadInt64(&rl.tokens))
}

func (rl *RateLimiter) refillTokens() {
	now := time.Now().UnixNano()

	for {
		currentTokens := atomic.LoadInt64(&rl.tokens)
		lastRefill := atomic.LoadInt64(&rl.lastRefill)

		elapsed := now - lastRefill
		tokensToAdd := int64(0)
		if rl.refillRate > 0 {
			tokensToAdd = elapsed / int64(rl.refillRate)
		}
		if tokensToAdd == 0 {
			break
		}

		newTokens := currentTokens + tokensToAdd
		if newTokens > rl.maxTokens {
			newTokens = rl.maxTokens
		}

		// Advance lastRefill by whole refill intervals so fractional
		// elapsed time is not lost.
		newLastRefill := lastRefill + tokensToAdd*int64(rl.refillRate)

		if !atomic.CompareAndSwapInt64(&rl.lastRefill, lastRefill, newLastRefill) {
			continue
		}

		atomic.StoreInt64(&rl.tokens, newTokens)
		break
	}
}

func (rl *RateLimiter) consumeToken() bool {
	for {
		currentTokens := atomic.LoadInt64(&rl.tokens)
		if currentTokens <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt64(&rl.tokens, currentTokens, currentTokens-1) {
			return true
		}
	}
}

// Limited wraps fn behind rl. Calls with no token available are denied
// with a *WrapError matching ErrRateLimited; the wrap never waits.
func Limited[T any](rl *RateLimiter, fn Func[T]) Func[T] {
	return func(ctx context.Context) (T, error) {
		if !rl.Allow() {
			rl.settings.metrics.RecordRateLimited(rl.settings.name)
			if rl.settings.debugEnabled() {
				rl.settings.logger.Warn("Rate limit exceeded", "name", rl.settings.name)
			}
			var zero T
			return zero, &WrapError{
				Type:      ErrorTypeRateLimit,
				Op:        rl.settings.name,
				Message:   "rate limit exceeded",
				Timestamp: time.Now(),
			}
		}
		return fn(ctx)
	}
}
