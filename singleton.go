package nswrapslite

import (
	"context"
	"fmt"
	"sync"
)

// Singleton stores the first successfully constructed value for the
// process lifetime. Concurrent first calls are serialized so the
// constructor runs exactly once; failed constructions are not memoized
// and the next call tries again.
type Singleton[T any] struct {
	mu       sync.Mutex
	done     bool
	value    T
	settings *settings
}

// NewSingleton creates an empty singleton slot.
func NewSingleton[T any](opts ...Option) *Singleton[T] {
	return &Singleton[T]{settings: newSettings(opts...)}
}

// Get returns the stored value, constructing it via init on the first
// call. Later calls ignore init entirely.
func (s *Singleton[T]) Get(ctx context.Context, init Func[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return s.value, nil
	}

	value, err := init(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	s.value = value
	s.done = true
	s.settings.metrics.RecordSingletonInit(s.settings.name)
	if s.settings.debugEnabled() {
		s.settings.logger.Debug("Singleton constructed", "name", s.settings.name)
	}
	return s.value, nil
}

// Initialized reports whether a value has been stored.
func (s *Singleton[T]) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Reset drops the stored value so the next Get constructs again.
// Intended for tests.
func (s *Singleton[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.done = false
}

// Shared wraps init so every returned call yields the same
// once-constructed value.
func Shared[T any](init Func[T], opts ...Option) Func[T] {
	s := NewSingleton[T](opts...)
	return func(ctx context.Context) (T, error) {
		return s.Get(ctx, init)
	}
}

type registryEntry struct {
	mu    sync.Mutex
	done  bool
	value any
}

// Registry maps names to singleton instances, each living for the process
// lifetime. Construction of distinct names proceeds in parallel;
// concurrent first calls for one name construct exactly once.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*registryEntry
	settings *settings
}

// NewRegistry creates an empty singleton registry.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		entries:  make(map[string]*registryEntry),
		settings: newSettings(opts...),
	}
}

// DefaultRegistry is the package-wide registry used when none is passed
// explicitly.
var DefaultRegistry = NewRegistry(WithName("default"))

// Instance returns the named singleton from r, constructing it via init
// on first access. A stored value of a different type is a usage error.
func Instance[T any](r *Registry, ctx context.Context, name string, init Func[T]) (T, error) {
	r.mu.Lock()
	entry, ok := r.entries[name]
	if !ok {
		entry = &registryEntry{}
		r.entries[name] = entry
	}
	r.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.done {
		value, ok := entry.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("nswrapslite: singleton %q holds %T, not the requested type", name, entry.value)
		}
		return value, nil
	}

	value, err := init(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	entry.value = value
	entry.done = true
	r.settings.metrics.RecordSingletonInit(name)
	return value, nil
}

// Forget removes the named instance so the next Instance call constructs
// again. Intended for tests.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Names returns the currently registered singleton names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}
