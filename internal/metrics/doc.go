// Package metrics provides Prometheus instrumentation for the m3u-parser service.
//
// All metrics are prefixed with "m3u_parser_" and registered with the default
// registry through promauto, so they are served by promhttp.Handler on the
// metrics port.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Database Metrics
//
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//   - DBConnectionsOpen: Gauge of open database connections
//   - DBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//
// ## Parser Metrics
//
// Recorded by the playlist observer installed with playlist.SetObserver:
//   - ParseEntriesTotal: Counter of assembled entries
//   - ParseEntryTags: Histogram of directives per entry
//   - ParseTagsTotal: Counter of parsed directives by tag
//   - ParseFormatErrorsTotal: Counter of malformed directive lines by tag
//   - ParseSkippedLinesTotal: Counter of blank, header and comment lines
//   - ParseDroppedTagsTotal: Counter of trailing directives discarded at end of input
//   - ParseSourceErrorsTotal: Counter of parses stopped by a read failure
//
// ## Fetch and Import Metrics
//
//   - FetchRequestsTotal: Counter of remote fetches by status
//   - FetchDuration: Histogram of remote fetch duration
//   - FetchBytesTotal: Counter of downloaded bytes
//   - ImportJobsTotal: Counter of batch import results
//   - ImportJobsInProgress: Gauge of running imports
//
// ## Catalog Metrics
//
// Updated periodically by Collector from the database:
//   - CatalogPlaylistsTotal, CatalogEntriesTotal, CatalogParseErrorsTotal
//
// ## Filesystem Metrics
//
// Recorded by the filesystem observer for NFS stale handle retries, labelled
// by operation ("stat" or "open").
//
// # Usage
//
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	playlist.SetObserver(metrics.NewPlaylistObserver())
//	metrics.InitializeMetrics()
//
//	collector := metrics.NewCollector(db, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
