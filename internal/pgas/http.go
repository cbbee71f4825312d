package pgas

import (
	"context"
	"fmt"

	"github.com/dreamware/kdht/internal/cluster"
	"github.com/dreamware/kdht/internal/shard"
)

// Directory is the ordered, per-rank list of peer addresses populated
// collectively at construction — an HTTP base URL is this runtime's opaque
// handle for a remote rank. cmd/coordinator assembles it once all N ranks
// have registered and broadcasts it to every rank in one pass.
type Directory []string

// HTTPRank is a rank's view of a real, cross-process PGAS collective: every
// other rank is a cmd/node process reachable at its Directory entry, and
// one-sided operations are HTTP calls against the endpoints
// RegisterSegmentHandlers installs.
type HTTPRank[V any] struct {
	local       *shard.Local[V]
	dir         Directory
	barrierAddr string
	self        Rank
}

var _ RankRuntime[struct{}] = (*HTTPRank[struct{}])(nil)

// NewHTTPRank constructs a rank's runtime view once its directory has been
// received from the coordinator. local is this rank's own storage, served
// locally rather than round-tripped over loopback HTTP.
func NewHTTPRank[V any](self Rank, local *shard.Local[V], dir Directory, barrierAddr string) *HTTPRank[V] {
	return &HTTPRank[V]{self: self, local: local, dir: dir, barrierAddr: barrierAddr}
}

// NumRanks implements Runtime.
func (r *HTTPRank[V]) NumRanks() int { return len(r.dir) }

// Rank implements Runtime.
func (r *HTTPRank[V]) Rank() Rank { return r.self }

// Capacity implements Runtime.
func (r *HTTPRank[V]) Capacity() int { return r.local.Capacity() }

// Barrier implements Runtime by asking the coordinator's /barrier endpoint
// to hold this request until every rank has made the same call.
func (r *HTTPRank[V]) Barrier(ctx context.Context) error {
	return cluster.PostJSON(ctx, r.barrierAddr+"/barrier", struct{}{}, nil)
}

type usedLoadResponse struct {
	Value int32 `json:"value"`
}

type usedFetchAddRequest struct {
	Delta int32 `json:"delta"`
}

type usedFetchAddResponse struct {
	Previous int32 `json:"previous"`
}

// Load implements AtomicDomain.
func (r *HTTPRank[V]) Load(ctx context.Context, rank Rank, slot int) (int32, error) {
	if rank == r.self {
		return r.local.Used.Load(slot), nil
	}
	var resp usedLoadResponse
	url := fmt.Sprintf("%s/pgas/used/%d", r.dir[rank], slot)
	if err := cluster.GetJSON(ctx, url, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// FetchAdd implements AtomicDomain.
func (r *HTTPRank[V]) FetchAdd(ctx context.Context, rank Rank, slot int, delta int32) (int32, error) {
	if rank == r.self {
		return r.local.Used.FetchAdd(slot, delta), nil
	}
	var resp usedFetchAddResponse
	url := fmt.Sprintf("%s/pgas/used/%d/fetch-add", r.dir[rank], slot)
	if err := cluster.PostJSON(ctx, url, usedFetchAddRequest{Delta: delta}, &resp); err != nil {
		return 0, err
	}
	return resp.Previous, nil
}

// Local implements DataTransport.
func (r *HTTPRank[V]) Local() *shard.Local[V] { return r.local }

// Get implements DataTransport.
func (r *HTTPRank[V]) Get(ctx context.Context, rank Rank, slot int) (V, error) {
	if rank == r.self {
		return r.local.Data.Get(slot), nil
	}
	var value V
	url := fmt.Sprintf("%s/pgas/data/%d", r.dir[rank], slot)
	if err := cluster.GetJSON(ctx, url, &value); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// Put implements DataTransport. For a remote rank the write is dispatched
// as an asynchronous HTTP POST on its own goroutine; for the local rank it
// completes synchronously but is still wrapped in a Handle so callers never
// need to special-case self-writes.
func (r *HTTPRank[V]) Put(rank Rank, slot int, value V) Handle {
	if rank == r.self {
		r.local.Data.Set(slot, value)
		return Ready()
	}
	f := newFuture()
	go func() {
		url := fmt.Sprintf("%s/pgas/data/%d", r.dir[rank], slot)
		err := cluster.PostJSON(context.Background(), url, value, nil)
		f.resolve(err)
	}()
	return f
}
