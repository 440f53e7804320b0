package metrics

import "m3u-parser/internal/playlist"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Database files ---
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	// --- Filesystem retry metrics ---
	for _, op := range []string{"stat", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}

	// --- Parser metrics per built-in tag ---
	for _, def := range playlist.DefaultTags() {
		ParseTagsTotal.WithLabelValues(def.Name)
		ParseFormatErrorsTotal.WithLabelValues(def.Name)
	}
	for _, kind := range []string{playlist.SkippedBlank, playlist.SkippedHeader, playlist.SkippedComment} {
		ParseSkippedLinesTotal.WithLabelValues(kind)
	}

	// --- Fetch and import ---
	for _, status := range []string{"success", "error", "cache_hit"} {
		FetchRequestsTotal.WithLabelValues(status)
	}
	for _, status := range []string{"success", "error"} {
		ImportJobsTotal.WithLabelValues(status)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "insert_playlist", "insert_entries",
		"insert_parse_errors", "list_playlists", "get_playlist", "get_entries",
		"get_parse_errors", "delete_playlist", "stats", "begin_transaction", "commit", "rollback"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
