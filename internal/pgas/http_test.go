package pgas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dreamware/kdht/internal/shard"
)

func newTestHTTPRank(t *testing.T, self Rank, dir Directory) *HTTPRank[int] {
	local := shard.NewLocal[int](int(self), 4)
	return NewHTTPRank[int](self, local, dir, "")
}

func TestHTTPRankSelfAccessBypassesNetwork(t *testing.T) {
	r := newTestHTTPRank(t, 0, Directory{""})
	ctx := context.Background()

	prev, err := r.FetchAdd(ctx, 0, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != 0 {
		t.Fatalf("expected 0, got %d", prev)
	}

	handle := r.Put(0, 2, 42)
	if err := handle.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := r.Get(ctx, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestHTTPRankRemoteAccessRoundTrips(t *testing.T) {
	remoteLocal := shard.NewLocal[int](1, 4)
	mux := http.NewServeMux()
	RegisterSegmentHandlers[int](mux, remoteLocal)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := Directory{"", srv.URL}
	r := newTestHTTPRank(t, 0, dir)
	ctx := context.Background()

	prev, err := r.FetchAdd(ctx, 1, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != 0 {
		t.Fatalf("expected 0, got %d", prev)
	}

	used, err := r.Load(ctx, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != 1 {
		t.Fatalf("expected 1, got %d", used)
	}

	handle := r.Put(1, 3, 99)
	if err := handle.Wait(ctx); err != nil {
		t.Fatalf("unexpected error waiting for remote put: %v", err)
	}

	got, err := r.Get(ctx, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 99 {
		t.Fatalf("got %d, want 99", got)
	}
}

func TestHTTPRankNumRanksAndCapacity(t *testing.T) {
	r := newTestHTTPRank(t, 0, Directory{"", "http://peer"})
	if r.NumRanks() != 2 {
		t.Fatalf("got %d, want 2", r.NumRanks())
	}
	if r.Capacity() != 4 {
		t.Fatalf("got %d, want 4", r.Capacity())
	}
}
