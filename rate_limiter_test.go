package nswrapslite

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiterStartsFull(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("Expected token %d to be available", i+1)
		}
	}
	if rl.Allow() {
		t.Error("Expected an empty bucket to deny")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Millisecond)

	rl.Allow()
	rl.Allow()
	if rl.Allow() {
		t.Fatal("Expected the bucket drained")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.Allow() {
		t.Error("Expected a refilled token")
	}
}

func TestRateLimiterCapsAtMaxTokens(t *testing.T) {
	rl := NewRateLimiter(2, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	if got := rl.Tokens(); got != 2 {
		t.Errorf("Expected refill capped at 2 tokens, got %d", got)
	}
}

func TestRateLimiterTokens(t *testing.T) {
	rl := NewRateLimiter(5, time.Hour)
	if got := rl.Tokens(); got != 5 {
		t.Errorf("Expected 5 tokens, got %d", got)
	}
	rl.Allow()
	if got := rl.Tokens(); got != 4 {
		t.Errorf("Expected 4 tokens after one call, got %d", got)
	}
}

func TestLimitedDeniesWithoutTokens(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour, WithName("api"))

	calls := 0
	fn := Limited(rl, func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	})

	ctx := context.Background()
	if v, err := fn(ctx); err != nil || v != 1 {
		t.Fatalf("Expected the first call to pass, got (%d, %v)", v, err)
	}

	_, err := fn(ctx)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected rate-limit denial, got %v", err)
	}
	var wrapErr *WrapError
	if !errors.As(err, &wrapErr) {
		t.Fatal("Expected a *WrapError")
	}
	if wrapErr.Type != ErrorTypeRateLimit || wrapErr.Op != "api" {
		t.Errorf("Unexpected denial error: %+v", wrapErr)
	}
	if calls != 1 {
		t.Errorf("Denied calls must not reach fn, got %d invocations", calls)
	}
}

func TestLimitedDenialIsRetryable(t *testing.T) {
	rl := NewRateLimiter(0, time.Hour)
	fn := Limited(rl, func(ctx context.Context) (int, error) {
		return 0, nil
	})

	_, err := fn(context.Background())
	if !IsRetryable(err) {
		t.Error("A rate-limit denial should count as retryable")
	}
}
