package main

import (
	"encoding/json"
	"net/http"

	"github.com/dreamware/kdht/internal/dht"
	"github.com/dreamware/kdht/internal/kmer"
)

// registerTableHandlers installs the admin-facing endpoints a caller uses
// to drive this rank's view of the table: insert a record, find a key, and
// force a write-batch flush ahead of the collective barrier.
func registerTableHandlers(mux *http.ServeMux, table *dht.Table[kmer.PKmer, kmer.KmerPair]) {
	h := &tableHandlers{table: table}
	mux.HandleFunc("/dht/insert", h.handleInsert)
	mux.HandleFunc("/dht/find", h.handleFind)
	mux.HandleFunc("/dht/flush", h.handleFlush)
}

type tableHandlers struct {
	table *dht.Table[kmer.PKmer, kmer.KmerPair]
}

type insertRequest struct {
	Kmer string `json:"kmer"`
	Ext  byte   `json:"ext"`
}

type insertResponse struct {
	Inserted bool `json:"inserted"`
}

// handleInsert reserves a slot for the given k-mer and writes the record
// asynchronously; the response reports only whether a slot was won, not
// whether the write has landed.
//
// Endpoint: POST /dht/insert
func (h *tableHandlers) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	key, err := kmer.NewPKmer([]byte(req.Kmer))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	inserted, err := h.table.Insert(r.Context(), kmer.KmerPair{Kmer: key, Ext: req.Ext})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, insertResponse{Inserted: inserted})
}

type findResponse struct {
	Found bool   `json:"found"`
	Ext   byte   `json:"ext,omitempty"`
	Kmer  string `json:"kmer,omitempty"`
}

// handleFind looks up a k-mer given as the "kmer" query parameter. Callers
// must only use this after every rank has flushed its pending writes and
// the collective has crossed the barrier separating insert from find.
//
// Endpoint: GET /dht/find?kmer=...
func (h *tableHandlers) handleFind(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("kmer")
	key, err := kmer.NewPKmer([]byte(raw))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec, found, err := h.table.Find(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSON(w, findResponse{Found: false})
		return
	}
	writeJSON(w, findResponse{Found: true, Ext: rec.Ext, Kmer: rec.Kmer.String()})
}

// handleFlush blocks until every write this rank's Table has issued has
// landed, unconditionally. Every rank must call this, and every caller must
// wait for every rank's flush to complete, before crossing the barrier into
// the find phase.
//
// Endpoint: POST /dht/flush
func (h *tableHandlers) handleFlush(w http.ResponseWriter, r *http.Request) {
	if err := h.table.FlushWrites(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
