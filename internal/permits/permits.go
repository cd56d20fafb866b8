// Package permits bounds how many transcriptions run at once.
package permits

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"vidchat/internal/services"
)

// Pool is a fixed-capacity counting permit pool. Capacity is decided once at
// startup and never changes.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int
	timeout  time.Duration
	inUse    atomic.Int64
}

// New builds a pool with the given capacity. A non-positive capacity is
// treated as 1. A positive timeout bounds each Acquire; zero waits forever.
func New(capacity int, timeout time.Duration) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	if timeout < 0 {
		timeout = 0
	}
	return &Pool{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
		timeout:  timeout,
	}
}

// Acquire blocks until a permit is free and returns its release function.
// Release is safe to call more than once; only the first call frees the slot.
// When the configured wait timeout elapses first, the error carries
// services.ErrOverloaded.
func (p *Pool) Acquire(ctx context.Context) (func(), error) {
	waitCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.sem.Acquire(waitCtx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, services.Wrap(services.ErrOverloaded, "permits", "acquire", "timed out waiting for a transcription slot", err)
		}
		return nil, err
	}
	p.inUse.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			p.inUse.Add(-1)
			p.sem.Release(1)
		})
	}, nil
}

// Capacity reports the fixed number of permits.
func (p *Pool) Capacity() int { return p.capacity }

// InUse reports how many permits are currently held.
func (p *Pool) InUse() int { return int(p.inUse.Load()) }
