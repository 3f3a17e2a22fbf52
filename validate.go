package nswrapslite

import (
	"cmp"
	"context"
	"fmt"
)

// Validated wraps fn so its result must pass every check before being
// returned. A failing check yields the zero value and an error wrapping
// ErrValidation; the underlying call's own error passes through first.
func Validated[T any](fn Func[T], checks ...Check[T]) Func[T] {
	return func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if err != nil {
			return v, err
		}
		for _, check := range checks {
			if err := check(v); err != nil {
				var zero T
				return zero, fmt.Errorf("%w: result: %w", ErrValidation, err)
			}
		}
		return v, nil
	}
}

// ValidatedKey wraps a keyed function so the key must pass every check
// before fn runs.
func ValidatedKey[K comparable, V any](fn KeyedFunc[K, V], checks ...Check[K]) KeyedFunc[K, V] {
	return func(ctx context.Context, key K) (V, error) {
		for _, check := range checks {
			if err := check(key); err != nil {
				var zero V
				return zero, fmt.Errorf("%w: argument: %w", ErrValidation, err)
			}
		}
		return fn(ctx, key)
	}
}

// NotZero fails on the type's zero value.
func NotZero[T comparable]() Check[T] {
	return func(v T) error {
		var zero T
		if v == zero {
			return fmt.Errorf("value is zero")
		}
		return nil
	}
}

// Positive fails unless v is greater than the type's zero value.
func Positive[T cmp.Ordered]() Check[T] {
	return func(v T) error {
		var zero T
		if v <= zero {
			return fmt.Errorf("value %v is not positive", v)
		}
		return nil
	}
}

// InRange fails when v falls outside [lo, hi].
func InRange[T cmp.Ordered](lo, hi T) Check[T] {
	return func(v T) error {
		if v < lo || v > hi {
			return fmt.Errorf("value %v outside range [%v, %v]", v, lo, hi)
		}
		return nil
	}
}

// OneOf fails unless v equals one of the allowed values.
func OneOf[T comparable](allowed ...T) Check[T] {
	return func(v T) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("value %v not in the allowed set", v)
	}
}

// Named builds a check from a predicate, using desc in the failure message.
func Named[T any](desc string, pred func(T) bool) Check[T] {
	return func(v T) error {
		if !pred(v) {
			return fmt.Errorf("check %q failed for value %v", desc, v)
		}
		return nil
	}
}
