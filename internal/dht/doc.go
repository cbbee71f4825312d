// Package dht implements the distributed open-addressing hash table: the
// partitioning and insert/find protocol layered over internal/pgas's
// one-sided runtime and internal/storage's per-rank segments.
//
// # Overview
//
// A Table[K, V] is one rank's client of a table whose slots are spread
// across every rank in a PGAS collective. Insert and Find both walk the
// same linear probe sequence over the flattened global array of size
// N*C, decomposed incrementally into (rank, local) pairs by partition.go
// so that no probe step pays for a 64-bit division.
//
// Insert arbitrates ownership of a slot with a single atomic fetch-add on
// the remote used counter: the caller that observes a pre-add value of
// zero wins the slot and asynchronously writes its record, registering
// the write's completion handle in a running batch rather than waiting on
// it inline. Find instead performs a relaxed load of the same counter and,
// if nonzero, reads and compares the record.
//
// # Phase discipline
//
// There is no ordering between a winning fetch-add and its record's
// arrival at the target rank. A Find that races a not-yet-landed write
// observes stale or zero data. Callers must therefore run the table in two
// collective phases: every rank inserts, then every rank calls
// FlushWrites, then every rank crosses a pgas.Runtime barrier, and only
// then does any rank call Find. Interleaving insert and find calls without
// that separation is undefined.
//
// # Write batching
//
// Table tracks an outstanding-writes counter seeded to the batch size
// given to New, or by default to 1% of the per-rank capacity (floored at
// 1). Each successful Insert folds its write's handle
// into the current batch and decrements the counter; reaching zero blocks
// on that batch before starting a fresh one. FlushWrites blocks on
// whatever batch is outstanding unconditionally, regardless of the
// counter.
package dht
