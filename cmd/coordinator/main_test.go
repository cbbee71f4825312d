package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dreamware/kdht/internal/config"
)

func newTestServer(ranks int) *server {
	return newServer(&config.Manifest{Ranks: ranks, Capacity: 16}, time.Hour)
}

func TestHandleRegisterAcceptedBeforeComplete(t *testing.T) {
	srv := newTestServer(2)

	body := strings.NewReader(`{"rank":0,"addr":"http://rank-0"}`)
	req := httptest.NewRequest(http.MethodPost, "/rank/register", body)
	w := httptest.NewRecorder()
	srv.handleRegister(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusAccepted)
	}
}

func TestHandleRegisterReturnsDirectoryOnceComplete(t *testing.T) {
	srv := newTestServer(2)

	post := func(rank int, addr string) *httptest.ResponseRecorder {
		body := strings.NewReader(`{"rank":` + strconv.Itoa(rank) + `,"addr":"` + addr + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/rank/register", body)
		w := httptest.NewRecorder()
		srv.handleRegister(w, req)
		return w
	}

	post(0, "http://rank-0")
	w := post(1, "http://rank-1")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	var dir []string
	if err := json.NewDecoder(w.Body).Decode(&dir); err != nil {
		t.Fatalf("failed to decode directory: %v", err)
	}
	if len(dir) != 2 || dir[0] != "http://rank-0" || dir[1] != "http://rank-1" {
		t.Fatalf("got directory %v", dir)
	}
}

func TestHandleRegisterRetryDoesNotDuplicateRank(t *testing.T) {
	srv := newTestServer(2)

	// A rank retries registration until the directory is complete; each
	// retry must update in place, not grow the health-monitoring list.
	for i := 0; i < 3; i++ {
		body := strings.NewReader(`{"rank":0,"addr":"http://rank-0"}`)
		req := httptest.NewRequest(http.MethodPost, "/rank/register", body)
		srv.handleRegister(httptest.NewRecorder(), req)
	}

	if got := len(srv.knownRanks()); got != 1 {
		t.Fatalf("got %d tracked ranks, want 1", got)
	}
}

func TestHandleRegisterRejectsInvalidBody(t *testing.T) {
	srv := newTestServer(1)
	req := httptest.NewRequest(http.MethodPost, "/rank/register", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.handleRegister(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleDirectoryPendingThenReady(t *testing.T) {
	srv := newTestServer(1)

	w := httptest.NewRecorder()
	srv.handleDirectory(w, httptest.NewRequest(http.MethodGet, "/rank/directory", nil))
	if w.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusAccepted)
	}

	body := strings.NewReader(`{"rank":0,"addr":"http://rank-0"}`)
	srv.handleRegister(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/rank/register", body))

	w = httptest.NewRecorder()
	srv.handleDirectory(w, httptest.NewRequest(http.MethodGet, "/rank/directory", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
}

