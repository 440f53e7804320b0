package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockStatsProvider struct {
	mu      sync.Mutex
	stats   Stats
	calls   int
	updates int
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) UpdateDBMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
}

func (m *mockStatsProvider) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.updates
}

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, time.Minute)

	if c.statsProvider != provider {
		t.Error("Expected stats provider to be set")
	}
	if c.interval != time.Minute {
		t.Errorf("Expected interval 1m, got %v", c.interval)
	}
	if c.stopChan == nil {
		t.Error("Expected stop channel to be created")
	}
}

func TestCollectSetsCatalogGauges(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{TotalPlaylists: 3, TotalEntries: 42, TotalParseErrors: 5}}
	c := NewCollector(provider, time.Minute)

	c.collect()

	if got := testutil.ToFloat64(CatalogPlaylistsTotal); got != 3 {
		t.Errorf("Expected 3 playlists, got %v", got)
	}
	if got := testutil.ToFloat64(CatalogEntriesTotal); got != 42 {
		t.Errorf("Expected 42 entries, got %v", got)
	}
	if got := testutil.ToFloat64(CatalogParseErrorsTotal); got != 5 {
		t.Errorf("Expected 5 parse errors, got %v", got)
	}
	if _, updates := provider.counts(); updates != 1 {
		t.Errorf("Expected UpdateDBMetrics to be called once, got %d", updates)
	}
}

func TestCollectWithNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Minute)
	// Should not panic
	c.collect()
}

func TestCollectorStartCollectsImmediately(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, time.Hour)
	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if calls, _ := provider.counts(); calls > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Expected an immediate collection after Start")
}

func TestCollectorMultipleStops(_ *testing.T) {
	c := NewCollector(&mockStatsProvider{}, 10*time.Millisecond)
	c.Start()
	c.Stop()
	c.Stop()
}
