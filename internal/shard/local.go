// Package shard owns the per-rank portion of the distributed hash table.
// See doc.go for complete package documentation.
package shard

import (
	"sync/atomic"

	"github.com/dreamware/kdht/internal/storage"
)

// Stats tracks operation counters for one rank's local partition, updated
// atomically to avoid lock contention on the hot insert/find path.
//
// All counters are cumulative since the partition was created.
type Stats struct {
	// InsertAttempts counts every probe-sequence slot this rank's table
	// client has tried to reserve, win or lose.
	InsertAttempts uint64
	// InsertWins counts successful slot reservations (winning a slot).
	InsertWins uint64
	// FindAttempts counts every Find call issued against the table.
	FindAttempts uint64
	// FindHits counts Find calls that located the requested key.
	FindHits uint64
}

// Local is one rank's share of the distributed hash table: a fixed-capacity
// data segment, the matching used-counter segment, and the operation
// statistics for this rank.
//
// Local does not itself decide which slots belong to which rank — that is
// the partitioning layer's job (internal/dht) — it simply owns the storage
// for the slots this rank was allocated at construction.
type Local[V any] struct {
	// Data holds the records for this rank's slots.
	Data *storage.DataSegment[V]
	// Used holds the reservation counters for this rank's slots.
	Used *storage.UsedSegment
	// stats tracks cumulative operation counts; access through the
	// Record* helpers and Stats() rather than touching the fields directly.
	stats Stats
	// ID is this rank's identifier within the cluster. Immutable after
	// creation.
	ID int
}

// NewLocal allocates a rank's local partition with the given per-rank
// capacity. All ranks in a table must be constructed with the same
// capacity; neither Local nor the table constructor checks this across
// ranks (pgas.NewLocalCluster and a shared cluster manifest supply one
// capacity to every rank).
func NewLocal[V any](id int, capacity int) *Local[V] {
	return &Local[V]{
		ID:   id,
		Data: storage.NewDataSegment[V](capacity),
		Used: storage.NewUsedSegment(capacity),
	}
}

// Capacity returns the fixed number of slots owned by this rank.
func (l *Local[V]) Capacity() int {
	return l.Data.Capacity()
}

// RecordInsertAttempt increments the attempted-insert counter. Called once
// per probe-sequence step, regardless of outcome.
func (l *Local[V]) RecordInsertAttempt() {
	atomic.AddUint64(&l.stats.InsertAttempts, 1)
}

// RecordInsertWin increments the successful-reservation counter.
func (l *Local[V]) RecordInsertWin() {
	atomic.AddUint64(&l.stats.InsertWins, 1)
}

// RecordFindAttempt increments the attempted-find counter. Called once per
// Find call, regardless of outcome.
func (l *Local[V]) RecordFindAttempt() {
	atomic.AddUint64(&l.stats.FindAttempts, 1)
}

// RecordFindHit increments the successful-find counter.
func (l *Local[V]) RecordFindHit() {
	atomic.AddUint64(&l.stats.FindHits, 1)
}

// Stats returns a consistent snapshot of this rank's operation counters.
func (l *Local[V]) Stats() Stats {
	return Stats{
		InsertAttempts: atomic.LoadUint64(&l.stats.InsertAttempts),
		InsertWins:     atomic.LoadUint64(&l.stats.InsertWins),
		FindAttempts:   atomic.LoadUint64(&l.stats.FindAttempts),
		FindHits:       atomic.LoadUint64(&l.stats.FindHits),
	}
}

// Info is a point-in-time, serialization-friendly snapshot of this rank's
// local partition.
type Info struct {
	ID       int   `json:"id"`
	Capacity int   `json:"capacity"`
	Reserved int   `json:"reserved"`
	Stats    Stats `json:"stats"`
}

// Info returns metadata about this rank's local partition.
func (l *Local[V]) Info() Info {
	used := l.Used.Stats()
	return Info{
		ID:       l.ID,
		Capacity: used.Capacity,
		Reserved: used.Reserved,
		Stats:    l.Stats(),
	}
}
