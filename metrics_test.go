package nswrapslite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
}

func TestMetricsRecordCall(t *testing.T) {
	mc := newTestMetrics()

	mc.RecordCallStart("timer", "job")
	if got := testutil.ToFloat64(mc.callsInFlight.WithLabelValues("timer", "job")); got != 1 {
		t.Errorf("Expected 1 in flight, got %v", got)
	}

	mc.RecordCall("timer", "job", "success", 100*time.Millisecond)
	if got := testutil.ToFloat64(mc.callsInFlight.WithLabelValues("timer", "job")); got != 0 {
		t.Errorf("Expected 0 in flight after completion, got %v", got)
	}
	if got := testutil.ToFloat64(mc.callsTotal.WithLabelValues("timer", "job", "success")); got != 1 {
		t.Errorf("Expected 1 successful call, got %v", got)
	}
}

func TestMetricsRecordRetry(t *testing.T) {
	mc := newTestMetrics()

	mc.RecordRetry("fetch", 1)
	mc.RecordRetry("fetch", 1)
	mc.RecordRetry("fetch", 2)

	if got := testutil.ToFloat64(mc.retriesTotal.WithLabelValues("fetch", "1")); got != 2 {
		t.Errorf("Expected 2 first-attempt retries, got %v", got)
	}
	if got := testutil.ToFloat64(mc.retriesTotal.WithLabelValues("fetch", "2")); got != 1 {
		t.Errorf("Expected 1 second-attempt retry, got %v", got)
	}
}

func TestMetricsRecordCacheAndSingleton(t *testing.T) {
	mc := newTestMetrics()

	mc.RecordCacheHit("memo")
	mc.RecordCacheMiss("memo")
	mc.RecordCacheMiss("memo")
	mc.RecordCacheSize("memo", 7)
	mc.RecordSingletonInit("db")

	if got := testutil.ToFloat64(mc.cacheHits.WithLabelValues("memo")); got != 1 {
		t.Errorf("Expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(mc.cacheMisses.WithLabelValues("memo")); got != 2 {
		t.Errorf("Expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(mc.cacheSize.WithLabelValues("memo")); got != 7 {
		t.Errorf("Expected size 7, got %v", got)
	}
	if got := testutil.ToFloat64(mc.singletonInits.WithLabelValues("db")); got != 1 {
		t.Errorf("Expected 1 init, got %v", got)
	}
}

func TestMetricsRecordGuards(t *testing.T) {
	mc := newTestMetrics()

	mc.RecordCircuitState("api", StateOpen)
	mc.RecordRateLimited("api")
	mc.RecordPanicRecovered("api")

	if got := testutil.ToFloat64(mc.circuitState.WithLabelValues("api")); got != float64(StateOpen) {
		t.Errorf("Expected open state gauge, got %v", got)
	}
	if got := testutil.ToFloat64(mc.rateLimited.WithLabelValues("api")); got != 1 {
		t.Errorf("Expected 1 rate limited, got %v", got)
	}
	if got := testutil.ToFloat64(mc.panicsRecovered.WithLabelValues("api")); got != 1 {
		t.Errorf("Expected 1 recovered panic, got %v", got)
	}
}

func TestMetricsRecordPool(t *testing.T) {
	mc := newTestMetrics()

	mc.RecordPoolQueueDepth("workers", 3)
	mc.RecordPoolTask("workers", "completed")
	mc.RecordPoolTask("workers", "rejected")

	if got := testutil.ToFloat64(mc.poolQueueDepth.WithLabelValues("workers")); got != 3 {
		t.Errorf("Expected depth 3, got %v", got)
	}
	if got := testutil.ToFloat64(mc.poolTasksTotal.WithLabelValues("workers", "completed")); got != 1 {
		t.Errorf("Expected 1 completed task, got %v", got)
	}
}

func TestMetricsNilCollectorIsSafe(t *testing.T) {
	var mc *MetricsCollector

	mc.RecordCallStart("timer", "x")
	mc.RecordCall("timer", "x", "success", time.Second)
	mc.RecordRetry("x", 1)
	mc.RecordCacheHit("x")
	mc.RecordCacheMiss("x")
	mc.RecordCacheSize("x", 1)
	mc.RecordSingletonInit("x")
	mc.RecordPanicRecovered("x")
	mc.RecordCircuitState("x", StateClosed)
	mc.RecordRateLimited("x")
	mc.RecordPoolQueueDepth("x", 0)
	mc.RecordPoolTask("x", "completed")
}

func TestWithMetricsSharesOneCollector(t *testing.T) {
	a := newSettings(WithMetrics())
	b := newSettings(WithMetrics())

	if a.metrics == nil {
		t.Fatal("Expected WithMetrics to set a collector")
	}
	if a.metrics != b.metrics {
		t.Error("Repeated WithMetrics must reuse the same collector; a second registration would panic")
	}
}

func TestMetricsWiredThroughWraps(t *testing.T) {
	mc := newTestMetrics()

	fn := Timed(func(ctx context.Context) (int, error) {
		return 1, nil
	}, WithName("job"), WithMetricsCollector(mc))
	if _, err := fn(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	failing := Timed(func(ctx context.Context) (int, error) {
		return 0, errors.New("nope")
	}, WithName("job"), WithMetricsCollector(mc))
	failing(context.Background())

	if got := testutil.ToFloat64(mc.callsTotal.WithLabelValues("timer", "job", "success")); got != 1 {
		t.Errorf("Expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(mc.callsTotal.WithLabelValues("timer", "job", "error")); got != 1 {
		t.Errorf("Expected 1 error, got %v", got)
	}
}
