package dht

import "github.com/dreamware/kdht/internal/pgas"

// decompose splits a global slot index g in [0, n*c) into its owning rank
// and the local slot within that rank.
func decompose(g uint64, n, c int) (pgas.Rank, int) {
	nc := uint64(n) * uint64(c)
	g %= nc
	return pgas.Rank(g / uint64(c)), int(g % uint64(c))
}

// advance steps (rank, local) to the next global slot, wrapping local past
// c into the next rank modulo n. It never performs a division, so a full
// probe sequence of n*c steps costs n*c increments and comparisons, not
// n*c divisions.
func advance(rank pgas.Rank, local, n, c int) (pgas.Rank, int) {
	local++
	if local == c {
		local = 0
		rank++
		if int(rank) == n {
			rank = 0
		}
	}
	return rank, local
}

// initialSlot decomposes a 64-bit hash into the first (rank, local) address
// of its probe sequence over the global array of size n*c.
func initialSlot(hash uint64, n, c int) (pgas.Rank, int) {
	return decompose(hash, n, c)
}
