package dht

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dreamware/kdht/internal/pgas"
	"golang.org/x/sync/errgroup"
)

// ErrTableFull is returned by callers that wrap Insert's false return into
// an error (the probe sequence exhausted every global slot without winning
// one). Table.Insert itself reports this as a bool, per the narrow error
// taxonomy: a full table is not a runtime failure, it is an expected
// terminal outcome the caller treats as fatal for the job.
var ErrTableFull = errors.New("dht: table full")

// ErrKeyNotFound is the error-wrapped form of Find's false return, for
// callers that want a sentinel rather than a bool.
var ErrKeyNotFound = errors.New("dht: key not found")

// KeyView is the key projection a stored record must support: comparable
// so two keys can be checked for equality with ==, plus a full-width hash
// used to compute the initial probe slot.
type KeyView interface {
	comparable
	Hash() uint64
}

// Record is a fixed-size value type stored by the table. It must be able
// to report the key it is addressed by so Find can confirm a candidate
// slot actually holds the requested key rather than a hash collision.
type Record[K KeyView] interface {
	Key() K
}

// Table is one rank's view of the distributed hash table: the insert/find
// protocol layered over a pgas.RankRuntime[V], plus the write-batching
// state that hides one-sided put latency from the caller.
//
// A Table is constructed once per rank, collectively with every other
// rank's Table sharing the same RankRuntime implementation and the same
// per-rank capacity. It is safe for concurrent Insert/Find calls from
// multiple goroutines within this rank's process, though the runtime each
// rank is modeled after assumes a single-threaded caller.
type Table[K KeyView, V Record[K]] struct {
	rt        pgas.RankRuntime[V]
	n         int
	capacity  int
	batchSize int

	mu         sync.Mutex
	pending    *errgroup.Group
	currCount  int
	flushWaits atomic.Int64
}

// New constructs a rank's Table over the given runtime view. batchSize
// sets the write-batching target (internal/config.Manifest.BatchSize
// derives this from the cluster manifest's batch_fraction so every rank
// agrees on it); zero selects the default of 1% of the runtime's reported
// per-rank capacity, floored at 1.
func New[K KeyView, V Record[K]](rt pgas.RankRuntime[V], batchSize int) *Table[K, V] {
	c := rt.Capacity()
	if batchSize <= 0 {
		batchSize = c / 100
		if batchSize < 1 {
			batchSize = 1
		}
	}
	return &Table[K, V]{
		rt:        rt,
		n:         rt.NumRanks(),
		capacity:  c,
		batchSize: batchSize,
		pending:   &errgroup.Group{},
		currCount: batchSize,
	}
}

// Insert reserves a slot for rec's key and asynchronously writes rec into
// it. It returns true iff a slot was won; false means the probe sequence
// exhausted the entire global array (the table is full for this key).
//
// A non-nil error indicates a runtime-level failure (a remote fetch-add or
// put transport error), not a table-full condition; ErrTableFull is never
// returned directly by Insert, since the protocol reports fullness as a
// bool per its narrow error taxonomy.
func (t *Table[K, V]) Insert(ctx context.Context, rec V) (bool, error) {
	rank, local := initialSlot(rec.Key().Hash(), t.n, t.capacity)
	total := t.n * t.capacity
	self := t.rt.Local()
	for k := 0; k < total; k++ {
		self.RecordInsertAttempt()
		prev, err := t.rt.FetchAdd(ctx, rank, local, 1)
		if err != nil {
			return false, err
		}
		if prev == 0 {
			self.RecordInsertWin()
			handle := t.rt.Put(rank, local, rec)
			if err := t.registerPending(handle); err != nil {
				return true, err
			}
			return true, nil
		}
		rank, local = advance(rank, local, t.n, t.capacity)
	}
	return false, nil
}

// registerPending folds handle into the current write batch, decrementing
// curr_count. When curr_count reaches zero it swaps in a fresh batch and
// blocks on the just-retired one, the corrected flush predicate: the
// comparison is against the running counter, not the batch_size constant.
func (t *Table[K, V]) registerPending(handle pgas.Handle) error {
	t.mu.Lock()
	g := t.pending
	g.Go(func() error { return handle.Wait(context.Background()) })
	t.currCount--
	flush := t.currCount == 0
	var retired *errgroup.Group
	if flush {
		retired = g
		t.pending = &errgroup.Group{}
		t.currCount = t.batchSize
		t.flushWaits.Add(1)
	}
	t.mu.Unlock()
	if flush {
		return retired.Wait()
	}
	return nil
}

// Find looks up key, returning the stored record and true if a slot
// holding it is reached before the probe sequence exhausts the global
// array. Find must only be called after every inserting rank has called
// FlushWrites and the caller has crossed a collective barrier; without
// that phase separation a nonzero used counter does not guarantee the
// corresponding write has landed.
func (t *Table[K, V]) Find(ctx context.Context, key K) (V, bool, error) {
	var zero V
	rank, local := initialSlot(key.Hash(), t.n, t.capacity)
	total := t.n * t.capacity
	self := t.rt.Local()
	self.RecordFindAttempt()
	for k := 0; k < total; k++ {
		used, err := t.rt.Load(ctx, rank, local)
		if err != nil {
			return zero, false, err
		}
		if used != 0 {
			rec, err := t.rt.Get(ctx, rank, local)
			if err != nil {
				return zero, false, err
			}
			if rec.Key() == key {
				self.RecordFindHit()
				return rec, true, nil
			}
		}
		rank, local = advance(rank, local, t.n, t.capacity)
	}
	return zero, false, nil
}

// FlushWrites blocks until every write this rank's Table has issued (via
// Insert) has landed at its target, unconditionally, regardless of how
// many are currently outstanding.
func (t *Table[K, V]) FlushWrites() error {
	t.mu.Lock()
	g := t.pending
	t.pending = &errgroup.Group{}
	t.currCount = t.batchSize
	t.mu.Unlock()
	return g.Wait()
}

// Size returns this rank's per-rank capacity C.
func (t *Table[K, V]) Size() int { return t.capacity }

// GlobalSize returns the total capacity N*C across every rank.
func (t *Table[K, V]) GlobalSize() int { return t.n * t.capacity }

// FlushWaitCount reports how many times registerPending's curr_count
// predicate triggered an internal synchronising wait, for tests that
// instrument batching behaviour. It does not count explicit FlushWrites
// calls.
func (t *Table[K, V]) FlushWaitCount() int64 { return t.flushWaits.Load() }
