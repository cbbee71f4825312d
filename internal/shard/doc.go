// Package shard owns the per-rank portion of the distributed hash table:
// one Local[V] value pairs a rank's DataSegment and UsedSegment and tracks
// the operation counters that feed admin/info endpoints.
//
// # Overview
//
// A "shard" here keeps the role a key-addressed partition would have — the
// unit of data one rank is responsible for — but the keyspace is the fixed
// range of global slot indices [rank*C, rank*C+C), not arbitrary strings.
// There is no ShardState machine: the table has no resize and no
// migration, so there is nothing for a state machine to transition between.
//
// # Architecture
//
//	+------------------------------------------+
//	|                 Local[V]                  |
//	+------------------------------------------+
//	|  ID int          (this rank's id)         |
//	|  Data *storage.DataSegment[V]             |
//	|  Used *storage.UsedSegment                |
//	|  Stats Stats     (atomic op counters)     |
//	+------------------------------------------+
//
// # Concurrency model
//
//   - Stats counters are updated with sync/atomic, never under a lock.
//   - Data/Used access is delegated straight to the storage package; Local
//     adds no locking of its own, because the winner-takes-the-slot
//     invariant already rules out concurrent writers on a given data slot.
package shard
