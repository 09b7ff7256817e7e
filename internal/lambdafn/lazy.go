package lambdafn

import (
	"context"
	"sync"
)

// Lazy builds a value on first use and caches it once the build succeeds.
// A failed build is returned to that caller and attempted again on the next
// Get, so a warm container recovers from a transient outage at cold start.
type Lazy[T any] struct {
	build func(context.Context) (T, error)

	mu   sync.Mutex
	done bool
	val  T
}

// NewLazy wraps build.
func NewLazy[T any](build func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{build: build}
}

// Get returns the cached value or runs build while holding the lock.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.val, nil
	}
	val, err := l.build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.val, l.done = val, true
	return l.val, nil
}
