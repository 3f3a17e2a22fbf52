package nswrapslite_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandorn/nswrapslite"
)

func ExampleRetry() {
	attempts := 0
	fetch := func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("temporarily unavailable")
		}
		return "payload", nil
	}

	policy := nswrapslite.NewRetryPolicy(nswrapslite.RetryConfig{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		Jitter:      nswrapslite.NoJitter,
	})

	v, err := nswrapslite.Retry(policy, fetch)(context.Background())
	fmt.Println(v, err, attempts)
	// Output: payload <nil> 3
}

func ExampleMemoize() {
	cache := nswrapslite.NewMemoCache[int, int](nswrapslite.MemoConfig{TTL: time.Minute})

	loads := 0
	square := nswrapslite.Memoize(cache, func(ctx context.Context, n int) (int, error) {
		loads++
		return n * n, nil
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		v, _ := square(ctx, 6)
		fmt.Println(v)
	}
	fmt.Println("loads:", loads)
	// Output:
	// 36
	// 36
	// 36
	// loads: 1
}

func ExampleShared() {
	inits := 0
	conn := nswrapslite.Shared(func(ctx context.Context) (string, error) {
		inits++
		return "connection", nil
	})

	ctx := context.Background()
	conn(ctx)
	conn(ctx)
	v, _ := conn(ctx)
	fmt.Println(v, inits)
	// Output: connection 1
}

func ExampleFallback() {
	divide := func(a, b int) nswrapslite.Func[int] {
		return func(ctx context.Context) (int, error) {
			return a / b, nil
		}
	}

	safe := nswrapslite.Fallback(divide(10, 0), -1)
	v, err := safe(context.Background())
	fmt.Println(v, err)
	// Output: -1 <nil>
}

func ExampleValidated() {
	fn := nswrapslite.Validated(func(ctx context.Context) (int, error) {
		return -4, nil
	}, nswrapslite.InRange(0, 100))

	_, err := fn(context.Background())
	fmt.Println(errors.Is(err, nswrapslite.ErrValidation))
	// Output: true
}

func ExampleChain() {
	fn := func(ctx context.Context) (int, error) {
		return 21, nil
	}

	double := func(next nswrapslite.Func[int]) nswrapslite.Func[int] {
		return func(ctx context.Context) (int, error) {
			v, err := next(ctx)
			return v * 2, err
		}
	}

	v, _ := nswrapslite.Chain(fn, double)(context.Background())
	fmt.Println(v)
	// Output: 42
}

func ExampleGo() {
	future := nswrapslite.Go(context.Background(), func(ctx context.Context) (int, error) {
		return 7 * 6, nil
	})

	v, err := future.Wait(context.Background())
	fmt.Println(v, err)
	// Output: 42 <nil>
}
