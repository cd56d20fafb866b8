package permits

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vidchat/internal/services"
)

func TestPoolSerializesWithCapacityOne(t *testing.T) {
	pool := New(1, 0)
	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := pool.Acquire(context.Background())
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer release()
			now := active.Add(1)
			for {
				prev := maxActive.Load()
				if now <= prev || maxActive.CompareAndSwap(prev, now) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()
	if maxActive.Load() != 1 {
		t.Fatalf("expected at most one holder, observed %d", maxActive.Load())
	}
	if pool.InUse() != 0 {
		t.Fatalf("expected all permits released, in use %d", pool.InUse())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	pool := New(1, 0)
	release, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	release()
	if pool.InUse() != 0 {
		t.Fatalf("expected zero in use, got %d", pool.InUse())
	}
	second, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	second()
}

func TestAcquireTimeoutReportsOverloaded(t *testing.T) {
	pool := New(1, 20*time.Millisecond)
	release, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	_, err = pool.Acquire(context.Background())
	if !errors.Is(err, services.ErrOverloaded) {
		t.Fatalf("expected overloaded error, got %v", err)
	}
}

func TestAcquireHonoursCallerCancellation(t *testing.T) {
	pool := New(1, 0)
	release, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected caller deadline error, got %v", err)
	}
	if errors.Is(err, services.ErrOverloaded) {
		t.Fatal("caller cancellation must not be reported as overload")
	}
}

func TestNewClampsCapacity(t *testing.T) {
	if got := New(0, 0).Capacity(); got != 1 {
		t.Fatalf("expected capacity 1, got %d", got)
	}
	if got := New(8, 0).Capacity(); got != 8 {
		t.Fatalf("expected capacity 8, got %d", got)
	}
}
