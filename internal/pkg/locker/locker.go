// Package locker provides per-entity advisory locking. Lifecycle transitions,
// escrow resolution, and the auto-release sweep serialize on the entity's id so
// that two racing writers to the same order or escrow transaction are resolved
// by a single winner; the loser observes the committed state and no-ops.
package locker

import "sync"

// EntityLocker hands out one mutex per key. Locks are advisory: callers agree
// to acquire the lock for the entity id before mutating that entity.
type EntityLocker struct {
	mu    sync.Mutex
	locks map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

// NewEntityLocker creates an empty locker.
func NewEntityLocker() *EntityLocker {
	return &EntityLocker{locks: make(map[string]*entityLock)}
}

// Lock acquires the lock for the given key, blocking until it is available.
func (l *EntityLocker) Lock(key string) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entityLock{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for the given key. The per-key entry is dropped
// once no goroutine holds or waits on it, so the map does not grow unbounded.
func (l *EntityLocker) Unlock(key string) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		l.mu.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
