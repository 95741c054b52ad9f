package gate

import (
	"context"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrInvalidCapacity is returned by New for a capacity below one.
	ErrInvalidCapacity = errors.New("gate: capacity must be positive")

	// ErrReleaseWithoutAcquire is returned by Release when no permit is held.
	ErrReleaseWithoutAcquire = errors.New("gate: release without matching acquire")
)

// Gate bounds the number of concurrently held permits to a fixed capacity.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	held     atomic.Int64
	peak     atomic.Int64
}

// New creates a Gate with the given capacity.
func New(capacity int) (*Gate, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}, nil
}

// Acquire blocks until a permit is available or ctx is done.
// On error no permit is held.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	n := g.held.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return nil
}

// Release returns a permit, waking the longest waiter if there is one.
func (g *Gate) Release() error {
	for {
		n := g.held.Load()
		if n <= 0 {
			return ErrReleaseWithoutAcquire
		}
		if g.held.CompareAndSwap(n, n-1) {
			break
		}
	}
	g.sem.Release(1)
	return nil
}

// Do runs fn while holding a permit.
//
// If the permit cannot be acquired, fn is not called and the context error
// is returned.
func (g *Gate) Do(ctx context.Context, fn func() error) (err error) {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer func() {
		if rerr := g.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn()
}

// Capacity returns the configured number of permits.
func (g *Gate) Capacity() int {
	return int(g.capacity)
}

// Held returns the number of permits currently held.
func (g *Gate) Held() int {
	return int(g.held.Load())
}

// Peak returns the highest number of permits held at once.
func (g *Gate) Peak() int {
	return int(g.peak.Load())
}
