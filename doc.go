// Package nswrapslite provides small, composable wrappers ("wraps") around
// user supplied functions to cut application boilerplate:
//
//   - Retries with exponential backoff + jitter
//   - TTL memoization with in-flight call coalescing
//   - Singleton construction (exactly once, thread safe)
//   - Timing and structured call logging
//   - Panic protection with re-raise or fallback value policies
//   - Result / argument validation checks
//   - Worker-pool and future based offload of synchronous work
//   - Circuit breaker and token bucket rate limiting
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: each wrap is independent, configured by a plain
//     config struct plus functional options for ambient concerns
//   - Explicit sync vs. async entry points: wraps operate on a Func[T],
//     while Go and Submit return a *Future[T]
//   - Safe concurrent use of every stateful wrap
//   - Pluggable Logger and MetricsCollector
//
// Typical usage:
//
//	policy := nswrapslite.NewRetryPolicy(nswrapslite.RetryConfig{MaxAttempts: 5})
//	fetch := nswrapslite.Retry(policy, func(ctx context.Context) (string, error) {
//	    return loadRemote(ctx)
//	})
//	v, err := fetch(ctx)
//
// Wraps compose through Chain; shared state (memo cache, singleton
// registry) lives in the wrap value, never in package globals. The library
// avoids opinionated logging: provide a Logger (e.g. via WithSimpleLogger)
// and enable debug flags selectively (WithDebug / WithDebugConfig).
package nswrapslite
