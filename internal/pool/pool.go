// Package pool provides a fixed-size pool of reusable items with
// context-aware acquisition.
package pool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Acquire once the pool has been closed.
var ErrClosed = errors.New("pool: closed")

// Pool hands out at most Size items at a time.
type Pool[T any] struct {
	items  chan T
	size   int
	mu     sync.Mutex
	closed bool
}

// New creates a pool of size items built by newItem.
func New[T any](size int, newItem func() T) *Pool[T] {
	if size <= 0 {
		size = 1
	}

	p := &Pool[T]{
		items: make(chan T, size),
		size:  size,
	}
	for range size {
		p.items <- newItem()
	}
	return p
}

// Acquire gets an item from the pool, blocking if none is available.
// It returns ctx.Err() if ctx is done first and ErrClosed if the pool is closed.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	select {
	case item, ok := <-p.items:
		if !ok {
			return zero, ErrClosed
		}
		return item, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Release returns an item to the pool. Items released after Close, or in
// excess of the pool size, are dropped.
func (p *Pool[T]) Release(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.items <- item:
	default:
	}
}

// Close closes the pool. Blocked and future Acquire calls fail with ErrClosed.
// Close is idempotent.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	for {
		select {
		case <-p.items:
		default:
			close(p.items)
			return
		}
	}
}

// Size returns the pool size.
func (p *Pool[T]) Size() int {
	return p.size
}
