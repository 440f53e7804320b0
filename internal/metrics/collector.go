package metrics

import (
	"sync"
	"time"

	"m3u-parser/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// DBMetricsUpdater refreshes connection and file size gauges.
type DBMetricsUpdater interface {
	UpdateDBMetrics()
}

// Stats holds the current catalog statistics
type Stats struct {
	TotalPlaylists   int
	TotalEntries     int
	TotalParseErrors int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogPlaylistsTotal.Set(float64(stats.TotalPlaylists))
	CatalogEntriesTotal.Set(float64(stats.TotalEntries))
	CatalogParseErrorsTotal.Set(float64(stats.TotalParseErrors))

	if u, ok := c.statsProvider.(DBMetricsUpdater); ok {
		u.UpdateDBMetrics()
	}

	logging.Debug("Metrics collected: playlists=%d, entries=%d, parse_errors=%d",
		stats.TotalPlaylists, stats.TotalEntries, stats.TotalParseErrors)
}
