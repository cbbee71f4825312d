// Package storage implements the fixed-capacity slot segments that back one
// rank's share of the distributed hash table: the "data" and "used" arrays
// of the remote memory layer.
//
// # Overview
//
// Unlike a general-purpose key-value store, a segment here has a capacity
// fixed at construction and never grows, shrinks, or iterates. Every slot is
// addressed by its local index, not by key. There is exactly one writer per
// data slot for the lifetime of the table (the rank that wins the slot's
// reservation — see internal/dht), so DataSegment itself does not need to
// serialize writes; UsedSegment's counters are the one place concurrent
// access is arbitrated, and that arbitration is atomic, not lock-based.
//
// # Architecture
//
//	+----------------------------------+
//	|            Local[V]               |
//	|  (internal/shard; one per rank)   |
//	+----------------+-----------------+
//	                 |
//	   +-------------+--------------+
//	   |                            |
//	+--v---------+          +-------v------+
//	| DataSegment|          | UsedSegment  |
//	| []V        |          | []atomic.Int32|
//	+------------+          +--------------+
//
// # Non-goals
//
// No Get/Put-by-key, no Delete, no List, no range scan: deletion and
// iteration are out of scope for the table built on top of these segments,
// so the segments themselves never grow an interface that would invite
// either.
package storage
