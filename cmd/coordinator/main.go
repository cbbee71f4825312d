// Package main implements the rendezvous coordinator for a distributed
// hash table's rank collective.
//
// The coordinator does not store table data and never routes an insert or
// find request — every rank can compute slot ownership on its own once it
// knows N and C from the shared cluster manifest. What the coordinator
// provides is the one thing ranks cannot bootstrap by themselves: a place
// to register an address and receive back the full, ordered directory of
// every other rank, plus a barrier endpoint separating the insert phase
// from the find phase.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│              Coordinator                 │
//	├─────────────────────────────────────────┤
//	│  HTTP API:                              │
//	│    /rank/register   - rank registration │
//	│    /rank/directory  - directory poll    │
//	│    /barrier         - phase barrier     │
//	│    /health          - liveness          │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    RankRegistry  - directory assembly   │
//	│    pgas.Barrier   - phase separation    │
//	│    HealthMonitor  - rank liveness       │
//	└─────────────────────────────────────────┘
//
// Configuration:
//   - COORDINATOR_ADDR: listen address (default ":8080")
//   - CLUSTER_MANIFEST: path to the cluster.yaml manifest (default "cluster.yaml")
//   - HEALTH_CHECK_INTERVAL: liveness poll interval (default "5s")
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/kdht/internal/cluster"
	"github.com/dreamware/kdht/internal/config"
	"github.com/dreamware/kdht/internal/coordinator"
	"github.com/dreamware/kdht/internal/pgas"
)

// logFatal is a variable to allow mocking log.Fatal in tests.
var logFatal = log.Fatalf

// server holds the coordinator's runtime state: the rank registry that
// assembles the directory, the barrier every rank crosses between phases,
// and the health monitor watching registered ranks.
type server struct {
	registry      *coordinator.RankRegistry
	barrier       *pgas.Barrier
	healthMonitor *coordinator.HealthMonitor

	mu    sync.RWMutex
	ranks []cluster.RankInfo
}

func newServer(manifest *config.Manifest, healthInterval time.Duration) *server {
	srv := &server{
		registry:      coordinator.NewRankRegistry(manifest.Ranks),
		barrier:       pgas.NewBarrier(manifest.Ranks),
		healthMonitor: coordinator.NewHealthMonitor(healthInterval),
	}
	srv.healthMonitor.SetOnUnhealthy(func(rank int) {
		logFatal("rank %d is unhealthy; the table has no recovery path for a dead rank mid-job", rank)
	})
	return srv
}

func (s *server) knownRanks() []cluster.RankInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ranks := make([]cluster.RankInfo, len(s.ranks))
	copy(ranks, s.ranks)
	return ranks
}

// handleRegister records a rank's address and, once every rank has
// registered, returns the finalized directory in the response body.
// Ranks retry registration until the directory is complete, so repeat
// registrations of the same rank are expected and must not grow the
// health-monitoring list.
//
// Endpoint: POST /rank/register
func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req cluster.RankInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.registry.Register(req.Rank, req.Addr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.ranks, func(ri cluster.RankInfo) bool { return ri.Rank == req.Rank })
	if idx >= 0 {
		s.ranks[idx] = req
	} else {
		s.ranks = append(s.ranks, req)
		log.Printf("rank %d registered at %s", req.Rank, req.Addr)
	}
	s.mu.Unlock()

	s.writeDirectoryIfReady(w)
}

// handleDirectory returns the finalized directory once every rank has
// registered, or 202 Accepted if registration is still in progress.
//
// Endpoint: GET /rank/directory
func (s *server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	s.writeDirectoryIfReady(w)
}

func (s *server) writeDirectoryIfReady(w http.ResponseWriter) {
	dir, ready := s.registry.Directory()
	if !ready {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dir)
}

func main() {
	addr := getenv("COORDINATOR_ADDR", ":8080")
	manifestPath := getenv("CLUSTER_MANIFEST", "cluster.yaml")
	healthInterval := 5 * time.Second
	if raw := os.Getenv("HEALTH_CHECK_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			healthInterval = parsed
		}
	}

	manifest, err := config.LoadManifest(manifestPath)
	if err != nil {
		logFatal("loading manifest: %v", err)
	}

	srv := newServer(manifest, healthInterval)

	go srv.healthMonitor.Start(context.Background(), srv.knownRanks)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/rank/register", srv.handleRegister)
	mux.HandleFunc("/rank/directory", srv.handleDirectory)
	pgas.RegisterBarrierHandler(mux, srv.barrier)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("coordinator listening on %s (expecting %d ranks)", addr, manifest.Ranks)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logFatal("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("stopping health monitor...")
	srv.healthMonitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("http server shutdown error: %v", err)
	}
	log.Println("coordinator stopped")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
