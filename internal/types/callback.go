// Package types contains common types used across the module.
package types

import (
	"iter"
	"slices"
	"sync"
)

// CallbackManager keeps an ordered, identifiable set of callbacks.
// The zero value is ready to use. Safe for concurrent use.
type CallbackManager[T any] struct {
	mu     sync.RWMutex
	cbs    []callback[T]
	nextID int
}

type callback[T any] struct {
	id int
	cb T
}

func (m *CallbackManager[T]) Len() int {
	if m == nil {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cbs)
}

// Add registers a callback and returns a function that removes it.
// The remove function is idempotent.
func (m *CallbackManager[T]) Add(cb T) (remove func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.cbs = append(m.cbs, callback[T]{id, cb})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.cbs = slices.DeleteFunc(m.cbs, func(c callback[T]) bool { return c.id == id })
			m.mu.Unlock()
		})
	}
}

// All iterates over the registered callbacks in registration order.
// The iteration works on a snapshot, so callbacks may add or remove
// callbacks without deadlocking.
func (m *CallbackManager[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if m == nil {
			return
		}

		m.mu.RLock()
		callbacks := make([]T, 0, len(m.cbs))
		for _, c := range m.cbs {
			callbacks = append(callbacks, c.cb)
		}
		m.mu.RUnlock()

		for _, cb := range callbacks {
			if !yield(cb) {
				return
			}
		}
	}
}
