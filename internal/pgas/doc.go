// Package pgas implements the "PGAS runtime" a distributed hash table
// depends on: process count, rank identity, typed global pointers, a
// one-sided put/get transport with composable completion handles, an atomic
// domain over the used-counter segment, and a collective barrier.
//
// # Overview
//
// "PGAS" is a Partitioned Global Address Space: every rank's memory is
// addressable by every other rank through one-sided operations, without the
// target rank's active participation. This package provides that contract
// as a small set of generic interfaces (Runtime, AtomicDomain,
// DataTransport[V]) and two implementations:
//
//	+--------------------------------------------------------------+
//	|                       RankRuntime[V]                         |
//	|            (Runtime + AtomicDomain + DataTransport[V])       |
//	+------------------------+---------------------+---------------+
//	                         |                     |
//	              +----------v---------+ +----------v-----------+
//	              |     LocalRank[V]    | |      HTTPRank[V]     |
//	              |  (in-process sim)   | |  (real cross-process)|
//	              +---------------------+ +-----------------------+
//
// LocalRank backs every rank with a shared LocalCluster: since the whole
// simulation lives in one address space, "remote" access is direct slice
// access, but puts are still genuinely dispatched asynchronously and
// returned as Handles, so the batching and pipelining discipline built on
// top of this package is exercised for real rather than short-circuited.
//
// HTTPRank backs every rank with an independent OS process (cmd/node)
// reached over HTTP, using internal/cluster's PostJSON/GetJSON to carry
// rank-to-rank one-sided memory access. The directory of peer addresses is
// assembled once, collectively, by cmd/coordinator (see
// internal/coordinator), at construction time.
//
// # Suspension points
//
// AtomicDomain.Load and AtomicDomain.FetchAdd block until the remote op
// returns; DataTransport.Get blocks until the remote get returns;
// DataTransport.Put does not block — it returns a Handle immediately, and
// the caller (internal/dht) is responsible for aggregating handles into a
// batch and waiting on them per the flush contract.
package pgas
