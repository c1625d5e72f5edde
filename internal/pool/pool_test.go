package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		p := New(size, func() int { return 0 })
		if p.Size() != 1 {
			t.Errorf("New(%d).Size() = %d, want 1", size, p.Size())
		}
	}
}

func TestPool_AcquireRelease(t *testing.T) {
	var built int
	p := New(2, func() *int { built++; v := built; return &v })
	defer p.Close()

	if built != 2 {
		t.Fatalf("built %d items, want 2", built)
	}

	ctx := context.Background()

	a, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 1 failed: %v", err)
	}
	b, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 2 failed: %v", err)
	}
	if a == b {
		t.Error("acquired the same item twice")
	}

	// Third acquire should block until the deadline.
	ctx3, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := p.Acquire(ctx3); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	p.Release(a)
	c, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire 3 failed: %v", err)
	}
	if c != a {
		t.Error("expected the released item back")
	}

	p.Release(b)
	p.Release(c)
}

func TestPool_AcquireCancelled(t *testing.T) {
	p := New(1, func() int { return 1 })
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPool_Close(t *testing.T) {
	p := New(1, func() int { return 1 })

	item, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.Acquire(context.Background())
		done <- err
	}()

	p.Close()
	p.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("blocked Acquire returned %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Acquire did not return after Close")
	}

	// Releasing after Close must not panic.
	p.Release(item)

	if _, err := p.Acquire(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Acquire after Close = %v, want ErrClosed", err)
	}
}

func TestPool_ReleaseExcess(t *testing.T) {
	p := New(1, func() int { return 1 })
	defer p.Close()

	// The pool is already full; the extra item is dropped.
	p.Release(2)

	got, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Acquire() = %d, want 1", got)
	}
}

func TestPool_Concurrent(t *testing.T) {
	p := New(3, func() int { return 0 })
	defer p.Close()

	var inUse, peak atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := p.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			n := inUse.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inUse.Add(-1)
			p.Release(item)
		}()
	}
	wg.Wait()

	if peak.Load() > 3 {
		t.Errorf("peak concurrency %d exceeds pool size 3", peak.Load())
	}
}
