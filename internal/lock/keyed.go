// Package lock provides a keyed mutex that serializes work per key.
package lock

import (
	"context"
	"strconv"
	"sync"
)

// KeyedMutex grants at most one concurrent holder per key. Callers for the
// same key are served in arrival order; callers for different keys never
// block each other. Per-key state is dropped as soon as nobody holds or waits
// for the key.
type KeyedMutex struct {
	mu   sync.Mutex
	keys map[string]*queue
}

// queue is a ticket chain: each caller waits on the channel of the caller
// that arrived just before it and closes its own channel on release.
type queue struct {
	tail    chan struct{}
	waiters int
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{keys: make(map[string]*queue)}
}

// Key builds the canonical key for a title of the given kind.
func Key(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// RunExclusive runs fn while holding the lock for key.
//
// The lock is released on every path out of fn, including errors and panics.
// If ctx is cancelled before the lock is acquired, RunExclusive returns
// ctx.Err() without running fn and without stalling later callers.
func (m *KeyedMutex) RunExclusive(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	prev, mine := m.enqueue(key)

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			// Hand our turn to whoever queued behind us once our predecessor is done.
			go func() {
				<-prev
				m.release(key, mine)
			}()
			return ctx.Err()
		}
	}

	defer m.release(key, mine)
	return fn(ctx)
}

// Len returns the number of keys currently held or waited on.
func (m *KeyedMutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

func (m *KeyedMutex) enqueue(key string) (prev, mine chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.keys[key]
	if !ok {
		q = &queue{}
		m.keys[key] = q
	}
	prev = q.tail
	mine = make(chan struct{})
	q.tail = mine
	q.waiters++
	return prev, mine
}

func (m *KeyedMutex) release(key string, mine chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	close(mine)
	q := m.keys[key]
	q.waiters--
	if q.waiters == 0 {
		delete(m.keys, key)
	}
}
