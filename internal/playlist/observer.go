package playlist

// Line kinds passed to Observer.ObserveSkippedLine.
const (
	SkippedBlank   = "blank"
	SkippedHeader  = "header"
	SkippedComment = "comment"
)

// Observer records parse activity. The metrics package provides the
// Prometheus implementation; this package only depends on the interface.
type Observer interface {
	ObserveEntry(tags int)
	ObserveTag(name string)
	ObserveFormatError(name string)
	ObserveSkippedLine(kind string)
	ObserveDroppedTags(count int)
	ObserveSourceError()
}

// defaultObserver is set at startup. When nil nothing is recorded.
var defaultObserver Observer

// SetObserver sets the package-level observer used by all streams.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
