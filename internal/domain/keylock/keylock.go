// Package keylock defines per-key exclusive sections.
//
// The engine serializes group re-ranks by group id, hackathon re-ranks by
// hackathon id, and score submission by (judge, submission) pair. Keys are
// plain strings so callers decide the granularity.
package keylock

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Locker grants exclusive sections keyed by string.
type Locker interface {
	// Lock blocks until the key's section is held or ctx is done.
	Lock(ctx context.Context, key string) error

	// Unlock releases the key's section. Calling it for a key that is not
	// held is a no-op.
	Unlock(key string)

	// Size returns the number of keys currently tracked.
	Size() int64
}

// entry is one key's semaphore plus a waiter refcount so idle keys can be
// dropped from the map.
type entry struct {
	sem  chan struct{}
	refs int
}

// inMemoryLocker implements Locker with a map of one-slot semaphores.
type inMemoryLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
	size    atomic.Int64
}

// New creates an in-memory locker.
func New() Locker {
	return &inMemoryLocker{
		entries: make(map[string]*entry),
	}
}

// Lock acquires the exclusive section for key.
func (l *inMemoryLocker) Lock(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
		l.size.Add(1)
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, e)
		return fmt.Errorf("lock %q: %w", key, ctx.Err())
	}
}

// Unlock releases the exclusive section for key.
func (l *inMemoryLocker) Unlock(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	l.mu.Unlock()
	if !ok {
		return
	}

	select {
	case <-e.sem:
	default:
		// Not held; nothing to release.
		return
	}
	l.release(key, e)
}

// release drops one reference and evicts the key once nobody holds or waits.
func (l *inMemoryLocker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs <= 0 {
		delete(l.entries, key)
		l.size.Add(-1)
	}
}

// Size returns the number of keys currently tracked.
func (l *inMemoryLocker) Size() int64 {
	return l.size.Load()
}
