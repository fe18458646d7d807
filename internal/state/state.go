// Package state holds the client-side view of each entity family. A store
// caches the last fetched collection together with a loading flag and the
// last error; mutations go through the API first and the local copy only
// changes on a confirmed server response.
package state

import (
	"context"
	"sync"
)

// lifecycle scopes every request a store issues. Close cancels the scope,
// aborting in-flight fetches.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifecycle(parent context.Context) *lifecycle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &lifecycle{ctx: ctx, cancel: cancel}
}

// bind derives a context canceled when either the caller's context or the
// store lifecycle ends.
func (l *lifecycle) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l *lifecycle) close() { l.cancel() }

// collection is the shared mutable core of a store.
type collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	err     error
}

// Snapshot is a point-in-time copy of a collection's state.
type Snapshot[T any] struct {
	Items   []T
	Loading bool
	Err     error
}

func (c *collection[T]) snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{Items: items, Loading: c.loading, Err: c.err}
}

func (c *collection[T]) begin() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
}

func (c *collection[T]) fail(err error) {
	c.mu.Lock()
	c.loading = false
	c.err = err
	c.mu.Unlock()
}

func (c *collection[T]) set(items []T) {
	c.mu.Lock()
	c.items = items
	c.loading = false
	c.err = nil
	c.mu.Unlock()
}

func (c *collection[T]) add(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.err = nil
	c.mu.Unlock()
}

func (c *collection[T]) replace(match func(T) bool, item T) {
	c.mu.Lock()
	for i := range c.items {
		if match(c.items[i]) {
			c.items[i] = item
			break
		}
	}
	c.err = nil
	c.mu.Unlock()
}

func (c *collection[T]) remove(match func(T) bool) {
	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.err = nil
	c.mu.Unlock()
}
