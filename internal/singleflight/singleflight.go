// Package singleflight coalesces concurrent calls for the same key so the
// memo cache loads each missing entry once.
package singleflight

import (
	"sync"
)

// Group manages a set of in-flight calls keyed by K. Duplicate callers
// block until the owning call completes and receive its results.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

// call represents an active or completed function call.
type call[V any] struct {
	wg  sync.WaitGroup
	val V
	err error
}

// New creates a new singleflight Group.
func New[K comparable, V any]() *Group[K, V] {
	return &Group[K, V]{
		m: make(map[K]*call[V]),
	}
}

// Do executes and returns the results of fn, making sure only one
// execution is in-flight for a given key at a time. The boolean reports
// whether this caller owned the execution (false means the result was
// shared from another caller's call).
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (V, error, bool) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, false
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	if g.m[key] == c {
		delete(g.m, key)
	}
	g.mu.Unlock()
	c.wg.Done()

	return c.val, c.err, true
}

// Forget removes the key so the next Do executes fn even if a previous
// call is still in progress.
func (g *Group[K, V]) Forget(key K) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
