package nswrapslite

import (
	"sync"
	"time"
)

// settings carries the ambient concerns shared by every wrap: naming,
// logging, metrics and the clock. Wrap-specific knobs live in the wrap's
// own config struct.
type settings struct {
	name    string
	logger  Logger
	metrics *MetricsCollector
	debug   *DebugConfig
	now     func() time.Time
}

// Option configures the ambient settings of a wrap.
type Option func(*settings)

func newSettings(opts ...Option) *settings {
	s := &settings{
		name:  "anonymous",
		debug: DefaultDebugConfig(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithName labels the wrap for logs, metrics and errors.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(s *settings) {
		s.debug.Enabled = true
		s.logger = NewSimpleLogger()
	}
}

var (
	defaultCollectorOnce sync.Once
	defaultCollector     *MetricsCollector
)

// WithMetrics enables Prometheus metrics on the default registerer. Every
// wrap built with WithMetrics shares one process-wide collector, so the
// series register once no matter how many wraps use it. Pass a collector
// of your own via WithMetricsCollector to use a custom registry.
func WithMetrics() Option {
	return func(s *settings) {
		defaultCollectorOnce.Do(func() {
			defaultCollector = NewMetricsCollector()
		})
		s.metrics = defaultCollector
	}
}

// WithMetricsCollector sets a custom metrics collector, letting several
// wraps share one registration.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(s *settings) {
		s.metrics = collector
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(s *settings) {
		s.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(s *settings) {
		if config != nil {
			s.debug = config
		}
	}
}

// WithCallIDGenerator sets a custom function for generating call IDs.
func WithCallIDGenerator(gen func() string) Option {
	return func(s *settings) {
		s.debug.CallIDGen = gen
	}
}

// WithClock overrides the time source. Tests use this to step TTLs
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// debugEnabled reports whether debug logging can emit anything.
func (s *settings) debugEnabled() bool {
	return s.debug != nil && s.debug.Enabled && s.logger != nil
}

func (s *settings) callID() string {
	if s.debug != nil && s.debug.CallIDGen != nil {
		return s.debug.CallIDGen()
	}
	return ""
}
