package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"m3u-parser/internal/playlist"
)

func TestHTTPMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestDatabaseMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"DBQueryTotal", DBQueryTotal},
		{"DBQueryDuration", DBQueryDuration},
		{"DBConnectionsOpen", DBConnectionsOpen},
		{"DBSizeBytes", DBSizeBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestParserMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ParseEntriesTotal", ParseEntriesTotal},
		{"ParseEntryTags", ParseEntryTags},
		{"ParseTagsTotal", ParseTagsTotal},
		{"ParseFormatErrorsTotal", ParseFormatErrorsTotal},
		{"ParseSkippedLinesTotal", ParseSkippedLinesTotal},
		{"ParseDroppedTagsTotal", ParseDroppedTagsTotal},
		{"ParseSourceErrorsTotal", ParseSourceErrorsTotal},
		{"FetchRequestsTotal", FetchRequestsTotal},
		{"FetchDuration", FetchDuration},
		{"FetchBytesTotal", FetchBytesTotal},
		{"ImportJobsTotal", ImportJobsTotal},
		{"ImportJobsInProgress", ImportJobsInProgress},
		{"CatalogPlaylistsTotal", CatalogPlaylistsTotal},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()

	if n := testutil.CollectAndCount(ParseTagsTotal); n < len(playlist.DefaultTags()) {
		t.Errorf("Expected at least %d tag series, got %d", len(playlist.DefaultTags()), n)
	}
	if n := testutil.CollectAndCount(ParseSkippedLinesTotal); n != 3 {
		t.Errorf("Expected 3 skipped line series, got %d", n)
	}
	if n := testutil.CollectAndCount(FilesystemRetryAttempts); n != 2 {
		t.Errorf("Expected 2 retry series, got %d", n)
	}
}

func TestPlaylistObserverRecordsParse(t *testing.T) {
	obs := NewPlaylistObserver()
	playlist.SetObserver(obs)
	t.Cleanup(func() { playlist.SetObserver(nil) })

	entriesBefore := testutil.ToFloat64(ParseEntriesTotal)
	extinfBefore := testutil.ToFloat64(ParseTagsTotal.WithLabelValues("EXTINF"))
	errorsBefore := testutil.ToFloat64(ParseFormatErrorsTotal.WithLabelValues("EXTINF"))
	droppedBefore := testutil.ToFloat64(ParseDroppedTagsTotal)
	headerBefore := testutil.ToFloat64(ParseSkippedLinesTotal.WithLabelValues(playlist.SkippedHeader))

	reg := playlist.NewRegistry()
	playlist.RegisterDefaults(reg)
	input := "#EXTM3U\n#EXTINF:1,One\none.mp3\n#EXTINF:bad\ntwo.mp3\n#EXTGRP:left\n"
	if _, err := playlist.NewParser(reg).ParseString(input).Collect(); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(ParseEntriesTotal) - entriesBefore; got != 2 {
		t.Errorf("Expected 2 entries recorded, got %v", got)
	}
	if got := testutil.ToFloat64(ParseTagsTotal.WithLabelValues("EXTINF")) - extinfBefore; got != 1 {
		t.Errorf("Expected 1 EXTINF recorded, got %v", got)
	}
	if got := testutil.ToFloat64(ParseFormatErrorsTotal.WithLabelValues("EXTINF")) - errorsBefore; got != 1 {
		t.Errorf("Expected 1 EXTINF format error recorded, got %v", got)
	}
	if got := testutil.ToFloat64(ParseDroppedTagsTotal) - droppedBefore; got != 1 {
		t.Errorf("Expected 1 dropped directive recorded, got %v", got)
	}
	if got := testutil.ToFloat64(ParseSkippedLinesTotal.WithLabelValues(playlist.SkippedHeader)) - headerBefore; got != 1 {
		t.Errorf("Expected 1 header line recorded, got %v", got)
	}
}

func TestFilesystemObserverRecordsRetries(t *testing.T) {
	obs := NewFilesystemObserver()
	before := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("open"))

	obs.ObserveStaleError("open")
	obs.ObserveRetryAttempt("open")
	obs.ObserveRetrySuccess("open")
	obs.ObserveRetryDuration("open", 0.01)

	if got := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("open")) - before; got != 1 {
		t.Errorf("Expected 1 stale error, got %v", got)
	}
}
