package nswrapslite

import (
	"context"
	"sync"
	"time"

	"github.com/sandorn/nswrapslite/internal/singleflight"
)

// MemoConfig holds memoization wrap configuration. Zero TTL defaults to
// 5 minutes; MaxEntries 0 means unbounded.
type MemoConfig struct {
	TTL        time.Duration
	MaxEntries int
}

func (cfg MemoConfig) withDefaults() MemoConfig {
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
	return cfg
}

type memoEntry[V any] struct {
	value     V
	expiresAt time.Time
	seq       uint64
}

// MemoCache memoizes values by key with time-to-live expiry. A single
// mutex guards the backing map; expired entries are removed lazily on
// access. Concurrent loads for the same missing key are coalesced so the
// loader runs once.
type MemoCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*memoEntry[V]
	seq     uint64

	cfg             MemoConfig
	settings        *settings
	group           *singleflight.Group[K, V]
	validationError error
}

// NewMemoCache creates a memo cache from cfg, applying defaults for zero
// fields.
func NewMemoCache[K comparable, V any](cfg MemoConfig, opts ...Option) *MemoCache[K, V] {
	c := &MemoCache[K, V]{
		entries:  make(map[K]*memoEntry[V]),
		cfg:      cfg.withDefaults(),
		settings: newSettings(opts...),
		group:    singleflight.New[K, V](),
	}
	c.validationError = c.validate()
	return c
}

func (c *MemoCache[K, V]) validate() error {
	var problems []string

	if c.cfg.TTL < 0 {
		problems = append(problems, "TTL must be positive")
	}
	if c.cfg.MaxEntries < 0 {
		problems = append(problems, "MaxEntries must be non-negative")
	}

	return validationError(c.settings.name, problems)
}

// Validate reports the configuration error recorded at construction, if any.
func (c *MemoCache[K, V]) Validate() error {
	return c.validationError
}

// Get returns the live value for key. Expired entries are deleted and
// reported as absent.
func (c *MemoCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		var zero V
		return zero, false
	}
	if c.settings.now().After(entry.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key with the configured TTL.
func (c *MemoCache[K, V]) Set(key K, value V) {
	c.SetTTL(key, value, c.cfg.TTL)
}

// SetTTL stores value under key with an explicit TTL override.
func (c *MemoCache[K, V]) SetTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.entries[key] = &memoEntry[V]{
		value:     value,
		expiresAt: c.settings.now().Add(ttl),
		seq:       c.seq,
	}
	c.trimLocked()
	c.settings.metrics.RecordCacheSize(c.settings.name, len(c.entries))
}

// trimLocked enforces MaxEntries: expired entries go first, then the
// oldest insertions.
func (c *MemoCache[K, V]) trimLocked() {
	if c.cfg.MaxEntries <= 0 || len(c.entries) <= c.cfg.MaxEntries {
		return
	}

	now := c.settings.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.cfg.MaxEntries {
		var (
			oldestKey K
			oldestSeq uint64
			found     bool
		)
		for key, entry := range c.entries {
			if !found || entry.seq < oldestSeq {
				oldestKey, oldestSeq, found = key, entry.seq, true
			}
		}
		delete(c.entries, oldestKey)
	}
}

// Delete removes key.
func (c *MemoCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.settings.metrics.RecordCacheSize(c.settings.name, len(c.entries))
}

// Clear removes every entry.
func (c *MemoCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*memoEntry[V])
	c.settings.metrics.RecordCacheSize(c.settings.name, 0)
}

// Len returns the number of stored entries, expired ones included until
// their lazy removal.
func (c *MemoCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do returns the cached value for key or loads, stores and returns it.
// Concurrent callers missing on the same key share one loader execution.
func (c *MemoCache[K, V]) Do(ctx context.Context, key K, loader Func[V]) (V, error) {
	if value, ok := c.Get(key); ok {
		c.settings.metrics.RecordCacheHit(c.settings.name)
		if c.settings.debugEnabled() && c.settings.debug.LogCache {
			c.settings.logger.Debug("Cache hit", "name", c.settings.name, "key", key)
		}
		return value, nil
	}

	c.settings.metrics.RecordCacheMiss(c.settings.name)
	if c.settings.debugEnabled() && c.settings.debug.LogCache {
		c.settings.logger.Debug("Cache miss", "name", c.settings.name, "key", key)
	}

	value, err, owner := c.group.Do(key, func() (V, error) {
		return c.load(ctx, key, loader)
	})
	if owner && err == nil && c.settings.debugEnabled() && c.settings.debug.LogCache {
		c.settings.logger.Debug("Value cached", "name", c.settings.name, "key", key, "ttl", c.cfg.TTL)
	}
	return value, err
}

// load runs as the owning call inside the singleflight group. The cache
// is re-checked first: a caller whose Get missed just as the previous
// owner stored the value must not reload it.
func (c *MemoCache[K, V]) load(ctx context.Context, key K, loader Func[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := loader(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// Memoize wraps a keyed function so repeat calls within the TTL are
// served from cache.
func Memoize[K comparable, V any](c *MemoCache[K, V], fn KeyedFunc[K, V]) KeyedFunc[K, V] {
	return func(ctx context.Context, key K) (V, error) {
		return c.Do(ctx, key, func(ctx context.Context) (V, error) {
			return fn(ctx, key)
		})
	}
}
