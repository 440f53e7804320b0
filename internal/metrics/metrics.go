package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m3u_parser_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_parser_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m3u_parser_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_parser_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "m3u_parser_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retries after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors seen",
		},
		[]string{"operation"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "m3u_parser_filesystem_retry_duration_seconds",
			Help:    "Time spent in filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// Parser metrics
var (
	ParseEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "m3u_parser_entries_total",
			Help: "Total number of playlist entries assembled",
		},
	)

	ParseEntryTags = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "m3u_parser_entry_tags",
			Help:    "Number of directives attached to each assembled entry",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	ParseTagsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_tags_total",
			Help: "Total number of directives parsed by tag",
		},
		[]string{"tag"},
	)

	ParseFormatErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_format_errors_total",
			Help: "Total number of malformed directive lines by tag",
		},
		[]string{"tag"},
	)

	ParseSkippedLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_skipped_lines_total",
			Help: "Total number of lines skipped by kind",
		},
		[]string{"kind"}, // "blank", "header", "comment"
	)

	ParseDroppedTagsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "m3u_parser_dropped_tags_total",
			Help: "Total number of trailing directives discarded at end of input",
		},
	)

	ParseSourceErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "m3u_parser_source_errors_total",
			Help: "Total number of parses stopped by a line source failure",
		},
	)
)

// Fetch metrics
var (
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_fetch_requests_total",
			Help: "Total number of remote playlist fetches",
		},
		[]string{"status"}, // "success", "error", "cache_hit"
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "m3u_parser_fetch_duration_seconds",
			Help:    "Remote playlist fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	FetchBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "m3u_parser_fetch_bytes_total",
			Help: "Total number of bytes downloaded from remote playlists",
		},
	)
)

// Import metrics
var (
	ImportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "m3u_parser_import_jobs_total",
			Help: "Total number of playlist imports by status",
		},
		[]string{"status"},
	)

	ImportJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_parser_import_jobs_in_progress",
			Help: "Number of playlist imports currently running",
		},
	)
)

// Catalog metrics
var (
	CatalogPlaylistsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_parser_catalog_playlists",
			Help: "Number of playlists stored in the catalog",
		},
	)

	CatalogEntriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_parser_catalog_entries",
			Help: "Number of entries stored in the catalog",
		},
	)

	CatalogParseErrorsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "m3u_parser_catalog_parse_errors",
			Help: "Number of parse errors stored in the catalog",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "m3u_parser_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)
