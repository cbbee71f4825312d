package dht

import (
	"testing"

	"github.com/dreamware/kdht/internal/pgas"
)

func TestDecompose(t *testing.T) {
	cases := []struct {
		name     string
		g        uint64
		n, c     int
		wantRank pgas.Rank
		wantLoc  int
	}{
		{"first slot of rank 0", 0, 2, 2, 0, 0},
		{"last slot of rank 0", 1, 2, 2, 0, 1},
		{"first slot of rank 1", 2, 2, 2, 1, 0},
		{"last slot of rank 1", 3, 2, 2, 1, 1},
		{"wraps modulo global capacity", 4, 2, 2, 0, 0},
		{"single rank single slot", 0, 1, 1, 0, 0},
		{"large hash wraps", 101, 2, 2, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rank, local := decompose(tc.g, tc.n, tc.c)
			if rank != tc.wantRank || local != tc.wantLoc {
				t.Fatalf("decompose(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.g, tc.n, tc.c, rank, local, tc.wantRank, tc.wantLoc)
			}
		})
	}
}

func TestAdvanceWithinRank(t *testing.T) {
	rank, local := advance(0, 0, 2, 2)
	if rank != 0 || local != 1 {
		t.Fatalf("got (%d, %d), want (0, 1)", rank, local)
	}
}

func TestAdvanceCrossesRankBoundary(t *testing.T) {
	rank, local := advance(0, 1, 2, 2)
	if rank != 1 || local != 0 {
		t.Fatalf("got (%d, %d), want (1, 0)", rank, local)
	}
}

func TestAdvanceWrapsToRankZero(t *testing.T) {
	rank, local := advance(1, 1, 2, 2)
	if rank != 0 || local != 0 {
		t.Fatalf("got (%d, %d), want (0, 0)", rank, local)
	}
}

// TestFullProbeSequenceVisitsEveryGlobalSlotExactlyOnce mirrors scenario D:
// starting from any slot, n*c advances must cover every global slot with no
// repeats before returning to the start.
func TestFullProbeSequenceVisitsEveryGlobalSlotExactlyOnce(t *testing.T) {
	const n, c = 3, 4
	rank, local := initialSlot(3, n, c)
	seen := make(map[[2]int]bool)
	for k := 0; k < n*c; k++ {
		key := [2]int{int(rank), local}
		if seen[key] {
			t.Fatalf("slot (%d, %d) visited twice", rank, local)
		}
		seen[key] = true
		rank, local = advance(rank, local, n, c)
	}
	if len(seen) != n*c {
		t.Fatalf("visited %d distinct slots, want %d", len(seen), n*c)
	}
}

func TestInitialSlotMatchesGlobalModulus(t *testing.T) {
	rank, local := initialSlot(101, 2, 2)
	if rank != 0 || local != 1 {
		t.Fatalf("initialSlot(101, 2, 2) = (%d, %d), want (0, 1)", rank, local)
	}
}
