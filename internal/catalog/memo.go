// Package catalog memoizes the server's catalogs for the life of the page.
package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo fetches a value once and serves it from memory afterwards.
// Concurrent first calls share a single fetch. The fetch keeps the values
// of the starting caller's context but not its cancellation, so one caller
// giving up does not fail the others; that caller alone returns its
// context's error. Failures are not remembered: the next Get fetches again.
type Memo[T any] struct {
	fetch func(context.Context) (T, error)
	group singleflight.Group

	mu     sync.Mutex
	val    T
	ok     bool
	epoch  uint64
	misses int
}

// NewMemo returns a Memo over fetch.
func NewMemo[T any](fetch func(context.Context) (T, error)) *Memo[T] {
	return &Memo[T]{fetch: fetch}
}

// Get returns the memoized value, fetching it first if necessary.
func (m *Memo[T]) Get(ctx context.Context) (T, error) {
	m.mu.Lock()
	if m.ok {
		v := m.val
		m.mu.Unlock()
		return v, nil
	}
	epoch := m.epoch
	m.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan("get", func() (interface{}, error) {
		m.mu.Lock()
		if m.ok && m.epoch == epoch {
			// A call that just finished already stored it.
			v := m.val
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		val, err := m.fetch(shared)
		m.mu.Lock()
		defer m.mu.Unlock()
		m.misses++
		if err != nil {
			return nil, err
		}
		if m.epoch == epoch {
			m.val, m.ok = val, true
		}
		return val, nil
	})

	var zero T
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Invalidate forgets the memoized value. A fetch already in flight still
// answers its callers but is not remembered.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.val, m.ok = zero, false
	m.epoch++
	m.group.Forget("get")
}

// Fetches returns how many fetches have completed.
func (m *Memo[T]) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.misses
}
