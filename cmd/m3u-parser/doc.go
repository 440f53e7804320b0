// Package main provides the entry point for the M3U parser service.
//
// The service parses extended M3U/M3U8 playlists over HTTP and keeps an
// SQLite catalog of imported playlists.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables and validates directories
//  2. Observers: Connects parser and filesystem events to Prometheus metrics
//  3. Registry: Registers the built-in directive tags in match order
//  4. Database Initialization: Opens the SQLite catalog
//  5. HTTP Server Setup: Configures routes and middleware, then starts serving
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM and stops all components
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - POST /api/parse parses a playlist without storing it
//     - /api/playlists imports, lists, pages, exports and deletes playlists
//     - GET /api/tags lists registered directive tags
//     - Health, readiness and version endpoints
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/health)
//
// # Environment Variables
//
//   - DATABASE_DIR: Directory for the SQLite catalog (default: /database)
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - FETCH_TIMEOUT: Timeout for remote playlist downloads (default: 30s)
//   - FETCH_CACHE_TTL: How long downloaded playlists are reused (default: 5m)
//   - FETCH_USER_AGENT: User-Agent sent to playlist servers
//   - MAX_UPLOAD_BYTES: Largest accepted playlist body (default: 32 MiB)
//   - IMPORT_WORKERS: Concurrent downloads per import request (default: 2 per CPU)
//   - STATS_INTERVAL: Catalog gauge refresh interval (default: 1m)
//
// # Related Packages
//
//   - [m3u-parser/internal/playlist]: Directive registry and streaming parser
//   - [m3u-parser/internal/database]: SQLite playlist catalog
//   - [m3u-parser/internal/handlers]: HTTP request handlers
//   - [m3u-parser/internal/source]: Local and remote playlist sources
//   - [m3u-parser/internal/middleware]: HTTP middleware (logging, metrics)
//   - [m3u-parser/internal/startup]: Configuration and initialization
package main
