package pgas

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreamware/kdht/internal/shard"
)

// RegisterSegmentHandlers installs the HTTP endpoints an HTTPRank uses to
// reach this rank's segments one-sidedly:
//
//	GET  /pgas/used/{slot}            -> {"value": <int32>}
//	POST /pgas/used/{slot}/fetch-add  <- {"delta": <int32>} -> {"previous": <int32>}
//	GET  /pgas/data/{slot}            -> V as JSON
//	POST /pgas/data/{slot}            <- V as JSON
//
// Every handler addresses local storage directly; there is no shard
// lookup or routing layer here, because a rank's segments have a single
// fixed capacity decided at construction.
func RegisterSegmentHandlers[V any](mux *http.ServeMux, local *shard.Local[V]) {
	mux.HandleFunc("/pgas/used/", func(w http.ResponseWriter, r *http.Request) {
		handleUsedRequest(local, w, r)
	})
	mux.HandleFunc("/pgas/data/", func(w http.ResponseWriter, r *http.Request) {
		handleDataRequest(local, w, r)
	})
}

func handleUsedRequest[V any](local *shard.Local[V], w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/pgas/used/")

	if idx := strings.Index(path, "/fetch-add"); idx != -1 {
		slot, err := strconv.Atoi(path[:idx])
		if err != nil {
			http.Error(w, "invalid slot", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req usedFetchAddRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		prev := local.Used.FetchAdd(slot, req.Delta)
		writeJSON(w, usedFetchAddResponse{Previous: prev})
		return
	}

	slot, err := strconv.Atoi(path)
	if err != nil {
		http.Error(w, "invalid slot", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, usedLoadResponse{Value: local.Used.Load(slot)})
}

func handleDataRequest[V any](local *shard.Local[V], w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/pgas/data/")
	slot, err := strconv.Atoi(path)
	if err != nil {
		http.Error(w, "invalid slot", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, local.Data.Get(slot))
	case http.MethodPost:
		var value V
		if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		local.Data.Set(slot, value)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterBarrierHandler installs the coordinator-side /barrier endpoint
// an HTTPRank.Barrier call blocks on: the request does not complete until
// every rank has an outstanding call against the same Barrier.
func RegisterBarrierHandler(mux *http.ServeMux, barrier *Barrier) {
	mux.HandleFunc("/barrier", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := barrier.Wait(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusGatewayTimeout)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
