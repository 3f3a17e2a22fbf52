package nswrapslite

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Func is the unit of wrapping: a context aware call producing a value.
type Func[T any] func(ctx context.Context) (T, error)

// KeyedFunc is a call parameterized by a comparable key, used by the
// memoization wrap.
type KeyedFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Middleware transforms a Func into a wrapped Func.
type Middleware[T any] func(next Func[T]) Func[T]

// Chain applies middleware around fn. The first middleware becomes the
// outermost layer, matching reading order at the call site.
func Chain[T any](fn Func[T], mw ...Middleware[T]) Func[T] {
	for i := len(mw) - 1; i >= 0; i-- {
		fn = mw[i](fn)
	}
	return fn
}

// Check validates a single value, returning a non-nil error on failure.
type Check[T any] func(T) error

// Hooks carries the before / after / error callbacks applied by WithHooks.
// Any field may be nil.
type Hooks[T any] struct {
	Before  func(ctx context.Context) context.Context
	After   func(ctx context.Context, v T)
	OnError func(ctx context.Context, err error)
}

// WithHooks invokes the hooks around fn. Before may replace the context;
// exactly one of After / OnError runs per call.
func WithHooks[T any](fn Func[T], h Hooks[T]) Func[T] {
	return func(ctx context.Context) (T, error) {
		if h.Before != nil {
			if next := h.Before(ctx); next != nil {
				ctx = next
			}
		}
		v, err := fn(ctx)
		if err != nil {
			if h.OnError != nil {
				h.OnError(ctx, err)
			}
			return v, err
		}
		if h.After != nil {
			h.After(ctx, v)
		}
		return v, nil
	}
}

// DebugConfig controls which lifecycle events the wraps log.
type DebugConfig struct {
	Enabled    bool
	LogCalls   bool
	LogResults bool
	LogErrors  bool
	LogRetries bool
	LogCache   bool
	CallIDGen  func() string
}

// DefaultDebugConfig returns a DebugConfig with every concern enabled and
// a sequential call ID generator. Enabled stays false until WithDebug.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		LogCalls:   true,
		LogResults: true,
		LogErrors:  true,
		LogRetries: true,
		LogCache:   true,
		CallIDGen:  defaultCallID,
	}
}

var callIDSeq atomic.Uint64

func defaultCallID() string {
	return "call-" + strconv.FormatUint(callIDSeq.Add(1), 10)
}
