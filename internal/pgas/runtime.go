package pgas

import (
	"context"

	"github.com/dreamware/kdht/internal/shard"
)

// Rank identifies one process in the collective, in [0, N).
type Rank int

// Handle is a completion handle for an asynchronous one-sided operation.
// Waiting on a Handle more than once must be safe and must always return
// the same result.
type Handle interface {
	// Wait blocks until the operation completes, or ctx is done.
	Wait(ctx context.Context) error
}

// readyHandle is the zero-cost Handle that is already complete. HTTPRank's
// writes to its own segment resolve with it instead of paying for a future.
type readyHandle struct{}

func (readyHandle) Wait(context.Context) error { return nil }

// Ready returns a Handle that is already satisfied.
func Ready() Handle { return readyHandle{} }

// Runtime exposes the collective facts and operations of the PGAS process
// group that do not depend on the record type stored in the table: how many
// ranks there are, which one this process is, the per-rank slot capacity,
// and the global barrier.
type Runtime interface {
	// NumRanks returns the fixed number of ranks in the collective.
	NumRanks() int
	// Rank returns this process's own rank id.
	Rank() Rank
	// Capacity returns the fixed per-rank slot capacity C.
	Capacity() int
	// Barrier blocks until every rank has called Barrier, or ctx is done.
	// It is the synchronization point separating the collective insert
	// phase from the collective find phase.
	Barrier(ctx context.Context) error
}

// AtomicDomain is a long-lived capability authorizing relaxed-order
// load/fetch-add against the used segment of any rank. One domain is
// acquired at table construction and held for the table's entire lifetime.
type AtomicDomain interface {
	// Load atomically reads the used counter at (rank, slot), relaxed
	// order. Blocks until the remote load returns.
	Load(ctx context.Context, rank Rank, slot int) (int32, error)
	// FetchAdd atomically adds delta to the used counter at (rank, slot)
	// and returns the pre-add value, relaxed order. Blocks until the
	// remote fetch-add returns.
	FetchAdd(ctx context.Context, rank Rank, slot int, delta int32) (int32, error)
}

// DataTransport is the one-sided put/get transport for a table storing
// records of type V. Get blocks until the remote get returns; Put does
// not block.
type DataTransport[V any] interface {
	// Get reads the record at (rank, slot). Blocks until the remote get
	// returns.
	Get(ctx context.Context, rank Rank, slot int) (V, error)
	// Put asynchronously writes value to (rank, slot) and returns a
	// Handle representing that write's completion. It never blocks.
	Put(rank Rank, slot int, value V) Handle
	// Local returns this process's own partition, the same *shard.Local
	// backing self-rank Get/Put/Load/FetchAdd calls. Callers (internal/dht)
	// use it to record client-side operation counters; it is never used to
	// bypass the one-sided Load/FetchAdd/Get/Put contract.
	Local() *shard.Local[V]
}

// RankRuntime is the full contract a table (internal/dht) needs from one
// rank's view of the PGAS runtime: collective facts, the atomic domain, and
// the data transport, combined.
type RankRuntime[V any] interface {
	Runtime
	AtomicDomain
	DataTransport[V]
}
