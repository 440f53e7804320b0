// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - DATABASE_DIR: Path to the catalog directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - FETCH_TIMEOUT: Timeout for remote playlist downloads (default: 30s)
//   - FETCH_CACHE_TTL: How long fetched playlists are cached, 0 disables (default: 5m)
//   - FETCH_USER_AGENT: User-Agent sent when fetching (default: a desktop browser)
//   - MAX_UPLOAD_BYTES: Largest accepted request body or download (default: 32 MiB)
//   - IMPORT_WORKERS: Fixed batch import concurrency (default: derived from GOMAXPROCS)
//   - STATS_INTERVAL: Catalog metrics refresh interval (default: 1m)
//
// Invalid values are logged and replaced by the default.
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
//
// # Lifecycle Logging
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	startup.LogDatabaseInit(time.Since(dbStart))
//	startup.LogParserInit(registry.Names())
//	startup.LogHTTPRoutes(router, config.LogHealthChecks)
//	startup.LogServerStarted(startup.ServerConfig{...})
package startup
