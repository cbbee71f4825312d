// Package cluster provides the JSON-over-HTTP transport and message types
// shared by the coordinator and every rank process: RankInfo, the
// registration body a rank announces itself with, and the
// PostJSON/GetJSON helpers used to talk to every peer.
//
// # Overview
//
// Every process in the collective — the coordinator and each rank —
// exchanges small JSON payloads over plain HTTP. This package owns the
// wire types for that exchange and the two request helpers
// (PostJSON/GetJSON) that rank registration, the barrier call and every
// one-sided segment access use instead of building http.Request values
// by hand. The coordinator's health probes use their own http.Client.
//
// # Architecture
//
//	+-----------------------------------------+
//	|             Coordinator                 |
//	|  - RankRegistry (directory assembly)    |
//	|  - Barrier (phase separation)           |
//	|  - HealthMonitor (rank liveness)        |
//	+--------------------+--------------------+
//	                     |
//	      +--------------+--------------+
//	      |              |              |
//	+-----v-----+  +-----v-----+  +-----v-----+
//	|  Rank 0   |  |  Rank 1   |  |  Rank 2   |
//	+-----------+  +-----------+  +-----------+
//
// # Communication protocol
//
//   - Rank registration (POST /rank/register): a rank announces its
//     address; once every rank has registered, the response carries the
//     finalized directory.
//   - Directory polling (GET /rank/directory): an idempotent re-check of
//     the same state, for a rank that wants to confirm readiness without
//     re-registering.
//   - Health checking (GET /health): periodic liveness probes from the
//     coordinator to every registered rank.
//   - Phase barrier (POST /barrier): blocks until every rank has made the
//     same call, separating the collective insert phase from find.
//
// # Concurrency model
//
// httpClient is a single shared *http.Client, safe for concurrent use.
// PostJSON and GetJSON hold no state of their own beyond that client, so
// callers may invoke them from any number of goroutines without
// additional synchronization.
package cluster
