package pgas

import (
	"context"
	"time"

	"github.com/dreamware/kdht/internal/shard"
)

// LocalCluster simulates a full N-rank PGAS collective inside a single Go
// process. Every rank's data and used segments live in the same address
// space, so "remote" access never leaves the process — but puts are still
// genuinely asynchronous (dispatched to their own goroutine and returned as
// a Handle) so that internal/dht's batching and pipelining logic is
// exercised faithfully rather than bypassed.
//
// LocalCluster is the construction-time collective: one LocalCluster is
// shared by every rank's LocalRank view, standing in for the broadcast that
// would populate each rank's directory of remote base pointers in a true
// multi-process deployment — here the directory is the shared slice of
// *shard.Local[V] itself.
type LocalCluster[V any] struct {
	ranks    []*shard.Local[V]
	barrier  *Barrier
	opLatency time.Duration
}

// NewLocalCluster allocates n ranks, each with the given per-rank capacity,
// guaranteeing every rank sees the same capacity by construction.
//
// opLatency, if nonzero, is an artificial delay applied to every simulated
// one-sided operation, so tests can widen the window between a put being
// issued and it landing. With zero latency puts still run on their own
// goroutines, but there is little latency for batching to hide.
func NewLocalCluster[V any](n, capacity int, opLatency time.Duration) *LocalCluster[V] {
	if n <= 0 {
		panic("pgas: cluster must have at least one rank")
	}
	ranks := make([]*shard.Local[V], n)
	for i := range ranks {
		ranks[i] = shard.NewLocal[V](i, capacity)
	}
	return &LocalCluster[V]{
		ranks:     ranks,
		barrier:   NewBarrier(n),
		opLatency: opLatency,
	}
}

// Rank returns the RankRuntime view for rank r, the handle that rank's
// table instance should be constructed with.
func (c *LocalCluster[V]) Rank(r Rank) RankRuntime[V] {
	if int(r) < 0 || int(r) >= len(c.ranks) {
		panic("pgas: rank out of range")
	}
	return &LocalRank[V]{cluster: c, self: r}
}

// Local returns the underlying per-rank storage, for tests and admin
// endpoints that need to inspect a rank's segments directly.
func (c *LocalCluster[V]) Local(r Rank) *shard.Local[V] {
	return c.ranks[r]
}

func (c *LocalCluster[V]) delay() {
	if c.opLatency > 0 {
		time.Sleep(c.opLatency)
	}
}

// LocalRank is one rank's view into a LocalCluster: it implements
// pgas.RankRuntime[V] by addressing the cluster's shared segments directly.
type LocalRank[V any] struct {
	cluster *LocalCluster[V]
	self    Rank
}

var _ RankRuntime[struct{}] = (*LocalRank[struct{}])(nil)

// NumRanks implements Runtime.
func (r *LocalRank[V]) NumRanks() int { return len(r.cluster.ranks) }

// Rank implements Runtime.
func (r *LocalRank[V]) Rank() Rank { return r.self }

// Capacity implements Runtime.
func (r *LocalRank[V]) Capacity() int { return r.cluster.ranks[0].Capacity() }

// Barrier implements Runtime.
func (r *LocalRank[V]) Barrier(ctx context.Context) error {
	return r.cluster.barrier.Wait(ctx)
}

// Load implements AtomicDomain.
func (r *LocalRank[V]) Load(ctx context.Context, rank Rank, slot int) (int32, error) {
	r.cluster.delay()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	return r.cluster.ranks[rank].Used.Load(slot), nil
}

// FetchAdd implements AtomicDomain.
func (r *LocalRank[V]) FetchAdd(ctx context.Context, rank Rank, slot int, delta int32) (int32, error) {
	r.cluster.delay()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	return r.cluster.ranks[rank].Used.FetchAdd(slot, delta), nil
}

// Get implements DataTransport.
func (r *LocalRank[V]) Get(ctx context.Context, rank Rank, slot int) (V, error) {
	r.cluster.delay()
	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	default:
	}
	return r.cluster.ranks[rank].Data.Get(slot), nil
}

// Local implements DataTransport.
func (r *LocalRank[V]) Local() *shard.Local[V] { return r.cluster.ranks[r.self] }

// Put implements DataTransport. The write is dispatched on its own
// goroutine and the returned Handle resolves when it lands.
func (r *LocalRank[V]) Put(rank Rank, slot int, value V) Handle {
	f := newFuture()
	go func() {
		r.cluster.delay()
		r.cluster.ranks[rank].Data.Set(slot, value)
		f.resolve(nil)
	}()
	return f
}
