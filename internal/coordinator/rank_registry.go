// Package coordinator implements the rendezvous point a PGAS collective
// uses to assemble its directory of rank addresses and cross a barrier
// between the insert and find phases. See doc.go for package documentation.
package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/dreamware/kdht/internal/pgas"
)

// RankRegistry collects rank-to-address registrations for one table's
// construction and finalizes the ordered Directory once every rank in
// [0, N) has registered exactly once.
//
// A registry is built for a fixed N, known up front from the run manifest
// every rank reads; ranks may register in any order, but the resulting
// Directory is always ordered by rank id, not by arrival order.
//
// Thread Safety:
// Register and Directory are safe for concurrent use. ready is closed
// exactly once, by whichever Register call observes the last missing
// rank.
type RankRegistry struct {
	mu    sync.Mutex
	addrs []string
	seen  int
	n     int
	ready chan struct{}
}

// NewRankRegistry creates a registry expecting exactly n rank registrations.
func NewRankRegistry(n int) *RankRegistry {
	if n <= 0 {
		panic("coordinator: rank registry size must be > 0")
	}
	return &RankRegistry{
		addrs: make([]string, n),
		n:     n,
		ready: make(chan struct{}),
	}
}

// Register records rank's address. Registering the same rank twice with a
// different address is rejected — a rank process restarting under the same
// table construction is out of scope; the caller must build a fresh table
// instead.
func (r *RankRegistry) Register(rank int, addr string) error {
	if rank < 0 || rank >= r.n {
		return fmt.Errorf("coordinator: rank %d out of range [0, %d)", rank, r.n)
	}
	if addr == "" {
		return fmt.Errorf("coordinator: rank %d registered with empty address", rank)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.addrs[rank]; existing != "" {
		if existing != addr {
			return fmt.Errorf("coordinator: rank %d already registered at %s", rank, existing)
		}
		return nil
	}

	r.addrs[rank] = addr
	r.seen++
	if r.seen == r.n {
		close(r.ready)
	}
	return nil
}

// Directory returns the finalized directory and true once every rank has
// registered; otherwise it returns (nil, false).
func (r *RankRegistry) Directory() (pgas.Directory, bool) {
	select {
	case <-r.ready:
		r.mu.Lock()
		defer r.mu.Unlock()
		dir := make(pgas.Directory, r.n)
		copy(dir, r.addrs)
		return dir, true
	default:
		return nil, false
	}
}

// WaitDirectory blocks until every rank has registered, or ctx is done,
// then returns the finalized directory.
func (r *RankRegistry) WaitDirectory(ctx context.Context) (pgas.Directory, error) {
	select {
	case <-r.ready:
		dir, _ := r.Directory()
		return dir, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
