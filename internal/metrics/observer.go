package metrics

import (
	"m3u-parser/internal/filesystem"
	"m3u-parser/internal/playlist"
)

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem retry
// metrics into the counters and histograms declared in metrics.go.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveRetryAttempt(op string) {
	FilesystemRetryAttempts.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op string) {
	FilesystemRetrySuccess.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op string) {
	FilesystemRetryFailures.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetryDuration(op string, durationSeconds float64) {
	FilesystemRetryDuration.WithLabelValues(op).Observe(durationSeconds)
}

func (o *filesystemObserver) ObserveStaleError(op string) {
	FilesystemStaleErrors.WithLabelValues(op).Inc()
}

// playlistObserver implements playlist.Observer.
type playlistObserver struct{}

// NewPlaylistObserver creates an observer that records parser activity.
func NewPlaylistObserver() playlist.Observer {
	return &playlistObserver{}
}

func (o *playlistObserver) ObserveEntry(tags int) {
	ParseEntriesTotal.Inc()
	ParseEntryTags.Observe(float64(tags))
}

func (o *playlistObserver) ObserveTag(name string) {
	ParseTagsTotal.WithLabelValues(name).Inc()
}

func (o *playlistObserver) ObserveFormatError(name string) {
	ParseFormatErrorsTotal.WithLabelValues(name).Inc()
}

func (o *playlistObserver) ObserveSkippedLine(kind string) {
	ParseSkippedLinesTotal.WithLabelValues(kind).Inc()
}

func (o *playlistObserver) ObserveDroppedTags(count int) {
	ParseDroppedTagsTotal.Add(float64(count))
}

func (o *playlistObserver) ObserveSourceError() {
	ParseSourceErrorsTotal.Inc()
}
