package handlers

import (
	"fmt"
	"net/http"

	"m3u-parser/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promLogger routes promhttp gather errors to the leveled logger.
type promLogger struct{}

func (promLogger) Println(v ...interface{}) {
	logging.Warn("metrics: %s", fmt.Sprint(v...))
}

// MetricsHandler returns the Prometheus metrics handler. A collector that
// fails to gather is logged and skipped rather than failing the scrape.
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog:          promLogger{},
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
}
