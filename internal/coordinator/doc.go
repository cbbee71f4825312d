// Package coordinator implements the rendezvous and phase-synchronization
// plane for a distributed hash table's rank collective: it is how N
// independent rank processes, launched without knowing each other's
// addresses in advance, agree on an ordered directory and later agree on
// when the insert phase has ended and the find phase may begin.
//
// # Overview
//
// The coordinator is deliberately thin. It does not own any table data,
// route any insert or find request, or make placement decisions — every
// rank already knows which global slots it owns once it knows N and C,
// per internal/dht's partitioning scheme. What the coordinator provides is
// exactly the two things no individual rank can derive on its own:
//
//   - RankRegistry: collects each rank's (rank, address) registration and
//     finalizes the ordered internal/pgas.Directory once all N have
//     registered, so every rank can address every other rank by HTTP base
//     URL instead of a raw network coordinate.
//   - A collective pgas.Barrier, exposed over HTTP via
//     pgas.RegisterBarrierHandler, separating the insert phase from the
//     find phase across every rank's process.
//
// # Health monitoring
//
// HealthMonitor periodically probes each registered rank's liveness. This
// is an ambient operational concern, not part of the table's correctness
// contract — a dead rank mid-job is a fatal condition for the whole run,
// not something the coordinator routes around, but surfacing it promptly
// (rather than waiting for the job to hang on a barrier) is worth the
// lightweight polling loop.
//
// # See Also
//
//   - internal/pgas: the runtime contract RankRegistry and the barrier
//     endpoint serve.
//   - cmd/coordinator: the process that wires RankRegistry, the barrier,
//     and HealthMonitor behind HTTP handlers.
package coordinator
