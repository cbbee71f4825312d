package coordinator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/kdht/internal/cluster"
)

func TestHealthMonitorHealthyRank(t *testing.T) {
	m := NewHealthMonitor(time.Hour)
	m.SetCheckFunction(func(string) error { return nil })

	m.checkRank(cluster.RankInfo{Rank: 0, Addr: "http://rank-0"})

	require.True(t, m.IsHealthy(0))
	health := m.Health(0)
	require.NotNil(t, health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 0, health.ConsecutiveFails)
}

func TestHealthMonitorRequiresConsecutiveFailures(t *testing.T) {
	m := NewHealthMonitor(time.Hour)

	var fail bool
	m.SetCheckFunction(func(string) error {
		if fail {
			return errors.New("probe failed")
		}
		return nil
	})

	info := cluster.RankInfo{Rank: 1, Addr: "http://rank-1"}

	// Two failures, then a success: the streak resets, the rank stays
	// healthy, and no transition fires.
	fired := make(chan int, 1)
	m.SetOnUnhealthy(func(rank int) { fired <- rank })

	fail = true
	m.checkRank(info)
	m.checkRank(info)
	fail = false
	m.checkRank(info)

	require.True(t, m.IsHealthy(1))
	assert.Equal(t, 0, m.Health(1).ConsecutiveFails)
	select {
	case rank := <-fired:
		t.Fatalf("unexpected unhealthy callback for rank %d", rank)
	default:
	}
}

func TestHealthMonitorFiresCallbackOncePerTransition(t *testing.T) {
	m := NewHealthMonitor(time.Hour)
	m.SetCheckFunction(func(string) error { return errors.New("down") })

	var mu sync.Mutex
	var fired []int
	done := make(chan struct{}, 1)
	m.SetOnUnhealthy(func(rank int) {
		mu.Lock()
		fired = append(fired, rank)
		mu.Unlock()
		done <- struct{}{}
	})

	info := cluster.RankInfo{Rank: 2, Addr: "http://rank-2"}
	for i := 0; i < 5; i++ {
		m.checkRank(info)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unhealthy callback never fired")
	}

	require.False(t, m.IsHealthy(2))
	assert.Equal(t, "unhealthy", m.Health(2).Status)

	// Probes beyond the threshold must not re-fire the callback.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2}, fired)
}

func TestHealthMonitorRecovery(t *testing.T) {
	m := NewHealthMonitor(time.Hour)

	var fail bool
	m.SetCheckFunction(func(string) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})

	info := cluster.RankInfo{Rank: 0, Addr: "http://rank-0"}
	fail = true
	for i := 0; i < 3; i++ {
		m.checkRank(info)
	}
	require.False(t, m.IsHealthy(0))

	fail = false
	m.checkRank(info)

	require.True(t, m.IsHealthy(0))
	assert.Equal(t, 0, m.Health(0).ConsecutiveFails)
}

func TestHealthMonitorUnknownRank(t *testing.T) {
	m := NewHealthMonitor(time.Hour)
	assert.False(t, m.IsHealthy(7))
	assert.Nil(t, m.Health(7))
}

func TestHealthMonitorStartPicksUpLateRegistrations(t *testing.T) {
	m := NewHealthMonitor(10 * time.Millisecond)
	m.SetCheckFunction(func(string) error { return nil })

	var mu sync.Mutex
	ranks := []cluster.RankInfo{{Rank: 0, Addr: "http://rank-0"}}
	provider := func() []cluster.RankInfo {
		mu.Lock()
		defer mu.Unlock()
		out := make([]cluster.RankInfo, len(ranks))
		copy(out, ranks)
		return out
	}

	go m.Start(context.Background(), provider)
	defer m.Stop()

	require.Eventually(t, func() bool { return m.IsHealthy(0) },
		time.Second, 5*time.Millisecond)

	mu.Lock()
	ranks = append(ranks, cluster.RankInfo{Rank: 1, Addr: "http://rank-1"})
	mu.Unlock()

	require.Eventually(t, func() bool { return m.IsHealthy(1) },
		time.Second, 5*time.Millisecond)
}

func TestHealthMonitorStopTerminatesLoop(t *testing.T) {
	m := NewHealthMonitor(5 * time.Millisecond)
	m.SetCheckFunction(func(string) error { return nil })

	done := make(chan struct{})
	go func() {
		m.Start(context.Background(), func() []cluster.RankInfo { return nil })
		close(done)
	}()

	m.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestDefaultHealthCheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	m := NewHealthMonitor(time.Hour)

	assert.NoError(t, m.defaultHealthCheck(healthy.URL))
	// A bare host:port address gets the scheme and /health path added.
	assert.NoError(t, m.defaultHealthCheck(healthy.Listener.Addr().String()))
	assert.Error(t, m.defaultHealthCheck(unhealthy.URL))
	assert.Error(t, m.defaultHealthCheck("http://127.0.0.1:1"))
}
