package nswrapslite

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the wrap call lifecycle
// and the stateful wraps. It is safe for concurrent use and may be shared
// by any number of wraps via WithMetricsCollector.
type MetricsCollector struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	callsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSize   *prometheus.GaugeVec

	singletonInits *prometheus.CounterVec

	panicsRecovered *prometheus.CounterVec

	circuitState *prometheus.GaugeVec

	rateLimited *prometheus.CounterVec

	poolQueueDepth *prometheus.GaugeVec
	poolTasksTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		callsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_calls_total",
				Help: "Total number of wrapped calls by outcome",
			},
			[]string{"wrap", "name", "outcome"},
		),
		callDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nswrapslite_call_duration_seconds",
				Help:    "Duration of wrapped calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"wrap", "name"},
		),
		callsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nswrapslite_calls_in_flight",
				Help: "Number of wrapped calls currently executing",
			},
			[]string{"wrap", "name"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"name", "attempt"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_cache_hits_total",
				Help: "Total number of memo cache hits",
			},
			[]string{"name"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_cache_misses_total",
				Help: "Total number of memo cache misses",
			},
			[]string{"name"},
		),
		cacheSize: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nswrapslite_cache_size",
				Help: "Current number of live entries in the memo cache",
			},
			[]string{"name"},
		),
		singletonInits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_singleton_inits_total",
				Help: "Total number of singleton constructions",
			},
			[]string{"name"},
		),
		panicsRecovered: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_panics_recovered_total",
				Help: "Total number of panics recovered from wrapped calls",
			},
			[]string{"name"},
		),
		circuitState: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nswrapslite_circuit_breaker_state",
				Help: "Current state of circuit breaker (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
		rateLimited: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_rate_limited_total",
				Help: "Total number of calls denied by the rate limiter",
			},
			[]string{"name"},
		),
		poolQueueDepth: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nswrapslite_pool_queue_depth",
				Help: "Current number of tasks waiting in the pool queue",
			},
			[]string{"name"},
		),
		poolTasksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nswrapslite_pool_tasks_total",
				Help: "Total number of tasks accepted by the pool",
			},
			[]string{"name", "outcome"},
		),
	}
}

// All Record helpers are nil-receiver safe so call sites stay clean when
// metrics are not configured.

func (mc *MetricsCollector) RecordCallStart(wrap, name string) {
	if mc == nil {
		return
	}
	mc.callsInFlight.WithLabelValues(wrap, name).Inc()
}

func (mc *MetricsCollector) RecordCall(wrap, name, outcome string, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.callsInFlight.WithLabelValues(wrap, name).Dec()
	mc.callsTotal.WithLabelValues(wrap, name, outcome).Inc()
	mc.callDuration.WithLabelValues(wrap, name).Observe(duration.Seconds())
}

func (mc *MetricsCollector) RecordRetry(name string, attempt int) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(name, strconv.Itoa(attempt)).Inc()
}

func (mc *MetricsCollector) RecordCacheHit(name string) {
	if mc == nil {
		return
	}
	mc.cacheHits.WithLabelValues(name).Inc()
}

func (mc *MetricsCollector) RecordCacheMiss(name string) {
	if mc == nil {
		return
	}
	mc.cacheMisses.WithLabelValues(name).Inc()
}

func (mc *MetricsCollector) RecordCacheSize(name string, size int) {
	if mc == nil {
		return
	}
	mc.cacheSize.WithLabelValues(name).Set(float64(size))
}

func (mc *MetricsCollector) RecordSingletonInit(name string) {
	if mc == nil {
		return
	}
	mc.singletonInits.WithLabelValues(name).Inc()
}

func (mc *MetricsCollector) RecordPanicRecovered(name string) {
	if mc == nil {
		return
	}
	mc.panicsRecovered.WithLabelValues(name).Inc()
}

func (mc *MetricsCollector) RecordCircuitState(name string, state CircuitState) {
	if mc == nil {
		return
	}
	mc.circuitState.WithLabelValues(name).Set(float64(state))
}

func (mc *MetricsCollector) RecordRateLimited(name string) {
	if mc == nil {
		return
	}
	mc.rateLimited.WithLabelValues(name).Inc()
}

func (mc *MetricsCollector) RecordPoolQueueDepth(name string, depth int) {
	if mc == nil {
		return
	}
	mc.poolQueueDepth.WithLabelValues(name).Set(float64(depth))
}

func (mc *MetricsCollector) RecordPoolTask(name, outcome string) {
	if mc == nil {
		return
	}
	mc.poolTasksTotal.WithLabelValues(name, outcome).Inc()
}
