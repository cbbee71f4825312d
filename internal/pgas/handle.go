package pgas

import (
	"context"
	"sync"
)

// future is the concrete Handle used by both the local and HTTP runtimes
// for asynchronous puts: a single-assignment result, resolved exactly once
// by the goroutine performing the underlying write, and safe to Wait on
// repeatedly (each Wait after the first returns the cached result).
type future struct {
	done chan struct{}
	once sync.Once
	err  error
}

// newFuture creates an unresolved future. Call resolve exactly once.
func newFuture() *future {
	return &future{done: make(chan struct{})}
}

// resolve completes the future with err. Must be called exactly once.
func (f *future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Wait implements Handle.
func (f *future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
