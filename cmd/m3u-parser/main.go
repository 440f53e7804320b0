package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"m3u-parser/internal/database"
	"m3u-parser/internal/filesystem"
	"m3u-parser/internal/handlers"
	"m3u-parser/internal/logging"
	"m3u-parser/internal/memory"
	"m3u-parser/internal/metrics"
	"m3u-parser/internal/middleware"
	"m3u-parser/internal/playlist"
	"m3u-parser/internal/source"
	"m3u-parser/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Set GOMEMLIMIT before the first large allocation
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Wire observers before anything parses or touches the filesystem
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, runtime.Version()).Set(1)
		playlist.SetObserver(metrics.NewPlaylistObserver())
		filesystem.SetObserver(metrics.NewFilesystemObserver())
	}

	// Directive registry shared by the API and the catalog
	reg := playlist.NewRegistry()
	playlist.RegisterDefaults(reg)
	startup.LogParserInit(reg.Names())

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath, reg)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	// Periodic catalog gauges
	var collector *metrics.Collector
	if config.MetricsEnabled {
		collector = metrics.NewCollector(db, config.StatsInterval)
		collector.Start()
		startup.LogCollectorStarted(config.StatsInterval)
	}

	fetcher := source.NewFetcher(source.FetcherConfig{
		Timeout:   config.FetchTimeout,
		CacheTTL:  config.FetchCacheTTL,
		UserAgent: config.FetchUserAgent,
		MaxBytes:  config.MaxUploadBytes,
	})

	// Initialize handlers
	h := handlers.New(db, reg, source.NewOpener(fetcher), config)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(h, config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	done := make(chan struct{})
	go func() {
		handleShutdown(srv, metricsSrv, collector, db)
		close(done)
	}()

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggingConfig.Software = "m3u-parser/" + startup.Version
	r.Use(middleware.Logger(loggingConfig))
	if config.MetricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes live on the root router so a method mismatch yields 405
	r.HandleFunc("/api/parse", h.ParsePlaylist).Methods("POST")
	r.HandleFunc("/api/tags", h.ListTags).Methods("GET")

	// Catalog
	r.HandleFunc("/api/playlists", h.ListPlaylists).Methods("GET")
	r.HandleFunc("/api/playlists", h.CreatePlaylist).Methods("POST")
	r.HandleFunc("/api/playlists/import", h.ImportPlaylists).Methods("POST")
	r.HandleFunc("/api/playlists/{id}", h.GetPlaylist).Methods("GET")
	r.HandleFunc("/api/playlists/{id}", h.DeletePlaylist).Methods("DELETE")
	r.HandleFunc("/api/playlists/{id}/entries", h.GetEntries).Methods("GET")
	r.HandleFunc("/api/playlists/{id}/errors", h.GetParseErrors).Methods("GET")
	r.HandleFunc("/api/playlists/{id}/export", h.ExportPlaylist).Methods("GET")

	return r
}

func newMetricsServer(h *handlers.Handlers, port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())
	metricsMux.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, db *database.Database) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Closing database")
	if err := db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	startup.LogShutdownComplete()
}
