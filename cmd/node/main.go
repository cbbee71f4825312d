// Package main implements a rank process of the distributed hash table:
// it owns one partition's storage, registers with the coordinator to
// receive the collective directory, and serves one-sided PGAS operations
// plus the admin-facing insert/find/flush endpoints that drive the table.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│                 Rank                     │
//	├─────────────────────────────────────────┤
//	│  HTTP API:                              │
//	│    /health         - liveness            │
//	│    /info           - rank diagnostics    │
//	│    /pgas/used/*    - atomic domain       │
//	│    /pgas/data/*    - data transport      │
//	│    /dht/insert     - admin insert        │
//	│    /dht/find       - admin find          │
//	│    /dht/flush      - admin flush         │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    shard.Local[kmer.KmerPair] - storage  │
//	│    pgas.HTTPRank              - runtime  │
//	│    dht.Table                  - protocol │
//	└─────────────────────────────────────────┘
//
// Configuration:
//   - RANK_ID: this process's rank id, in [0, N) (required)
//   - RANK_LISTEN: listen address (default ":8081")
//   - RANK_ADDR: public address advertised to the coordinator (default "http://127.0.0.1:8081")
//   - COORDINATOR_ADDR: coordinator base URL (required)
//   - CLUSTER_MANIFEST: path to cluster.yaml (default "cluster.yaml")
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dreamware/kdht/internal/cluster"
	"github.com/dreamware/kdht/internal/config"
	"github.com/dreamware/kdht/internal/dht"
	"github.com/dreamware/kdht/internal/kmer"
	"github.com/dreamware/kdht/internal/pgas"
	"github.com/dreamware/kdht/internal/shard"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

func main() {
	rankID, err := strconv.Atoi(mustGetenv("RANK_ID"))
	if err != nil {
		logFatal("RANK_ID must be an integer: %v", err)
	}
	listen := getenv("RANK_LISTEN", ":8081")
	public := getenv("RANK_ADDR", "http://127.0.0.1:8081")
	coord := mustGetenv("COORDINATOR_ADDR")
	manifestPath := getenv("CLUSTER_MANIFEST", "cluster.yaml")

	manifest, err := config.LoadManifest(manifestPath)
	if err != nil {
		logFatal("loading manifest: %v", err)
	}

	local := shard.NewLocal[kmer.KmerPair](rankID, manifest.Capacity)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, local.Info())
	})
	pgas.RegisterSegmentHandlers[kmer.KmerPair](mux, local)

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("rank[%d] listening on %s (public %s)", rankID, listen, public)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("listen: %v", err)
		}
	}()

	ctx := context.Background()
	dir := register(ctx, coord, rankID, public)

	rt := pgas.NewHTTPRank[kmer.KmerPair](pgas.Rank(rankID), local, dir, coord)
	table := dht.New[kmer.PKmer, kmer.KmerPair](rt, manifest.BatchSize())
	registerTableHandlers(mux, table)

	log.Printf("rank[%d] directory complete (%d ranks), table ready", rankID, len(dir))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("rank[%d] stopped", rankID)
}

type registerResponse = pgas.Directory

// register announces this rank to the coordinator and retries until the
// full directory is available, handling both coordinator startup delays
// and the time every other rank takes to register. It makes at most 50
// attempts, 400ms apart, then calls logFatal.
func register(ctx context.Context, coord string, rank int, addr string) pgas.Directory {
	body := cluster.RankInfo{Rank: rank, Addr: addr}

	for i := 0; i < 50; i++ {
		var dir registerResponse
		err := cluster.PostJSON(ctx, coord+"/rank/register", body, &dir)
		if err == nil && len(dir) > 0 {
			log.Printf("rank[%d] received directory of %d ranks", rank, len(dir))
			return dir
		}
		if err != nil {
			log.Printf("rank[%d] register retry %d: %v", rank, i+1, err)
		}
		time.Sleep(400 * time.Millisecond)
	}

	logFatal("rank[%d]: failed to obtain directory after retries", rank)
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustGetenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logFatal("missing required environment variable %s", key)
	}
	return v
}
