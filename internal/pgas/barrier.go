package pgas

import (
	"context"
	"sync"
)

// Barrier is a reusable cyclic barrier for exactly n participants, shared
// by LocalCluster (in-process) and cmd/coordinator's HTTP barrier endpoint
// (cross-process). It is the synchronization point callers use to separate
// the collective insert phase from the collective find phase.
type Barrier struct {
	mu      sync.Mutex
	release chan struct{}
	n       int
	count   int
}

// NewBarrier creates a barrier for n participants.
func NewBarrier(n int) *Barrier {
	if n <= 0 {
		panic("pgas: barrier size must be > 0")
	}
	return &Barrier{n: n, release: make(chan struct{})}
}

// Wait blocks until n calls to Wait are outstanding (across all goroutines
// sharing this Barrier), then releases all of them together. It returns
// early with ctx.Err() if ctx is done first; a caller that abandons a
// barrier this way leaves it in an inconsistent state for future use, which
// is acceptable here because a timed-out phase transition is already a
// fatal condition for the job.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	b.count++
	if b.count == b.n {
		b.count = 0
		release := b.release
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(release)
		return nil
	}
	release := b.release
	b.mu.Unlock()

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
