package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"m3u-parser/internal/logging"
)

// Config holds all application configuration
type Config struct {
	DatabaseDir     string
	Port            string
	MetricsPort     string
	LogHealthChecks bool
	MetricsEnabled  bool

	// Remote playlist fetching
	FetchTimeout   time.Duration
	FetchCacheTTL  time.Duration
	FetchUserAgent string

	// Request limits
	MaxUploadBytes int64
	ImportWorkers  int

	StatsInterval time.Duration

	// Derived paths
	DatabasePath string
}

// Defaults for values that are not plain strings
const (
	DefaultFetchTimeout   = 30 * time.Second
	DefaultFetchCacheTTL  = 5 * time.Minute
	DefaultMaxUploadBytes = 32 << 20
	DefaultStatsInterval  = time.Minute
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var errNegative = errors.New("must not be negative")

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	config := &Config{
		DatabaseDir:     getEnv("DATABASE_DIR", "/database"),
		Port:            getEnv("PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", true),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", DefaultFetchTimeout),
		FetchCacheTTL:   getEnvDuration("FETCH_CACHE_TTL", DefaultFetchCacheTTL),
		FetchUserAgent:  getEnv("FETCH_USER_AGENT", DefaultUserAgent),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		ImportWorkers:   int(getEnvInt64("IMPORT_WORKERS", 0)),
		StatsInterval:   getEnvDuration("STATS_INTERVAL", DefaultStatsInterval),
	}
	if config.StatsInterval <= 0 {
		logging.Warn("  STATS_INTERVAL must be positive, using default: %v", DefaultStatsInterval)
		config.StatsInterval = DefaultStatsInterval
	}

	importWorkers := "auto"
	if config.ImportWorkers > 0 {
		importWorkers = strconv.Itoa(config.ImportWorkers)
	}

	section("CONFIGURATION")
	for _, setting := range []struct {
		name  string
		value interface{}
	}{
		{"DATABASE_DIR", config.DatabaseDir},
		{"PORT", config.Port},
		{"METRICS_PORT", config.MetricsPort},
		{"METRICS_ENABLED", config.MetricsEnabled},
		{"LOG_HEALTH_CHECKS", config.LogHealthChecks},
		{"LOG_LEVEL", logging.GetLevel()},
		{"FETCH_TIMEOUT", config.FetchTimeout},
		{"FETCH_CACHE_TTL", config.FetchCacheTTL},
		{"FETCH_USER_AGENT", config.FetchUserAgent},
		{"MAX_UPLOAD_BYTES", config.MaxUploadBytes},
		{"IMPORT_WORKERS", importWorkers},
		{"STATS_INTERVAL", config.StatsInterval},
	} {
		logging.Info("  %-20s %v", setting.name+":", setting.value)
	}

	section("DIRECTORY SETUP")
	dir, err := filepath.Abs(config.DatabaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	config.DatabaseDir = dir
	config.DatabasePath = filepath.Join(dir, "playlists.db")
	logging.Info("  Database directory (absolute): %s", dir)

	if err := prepareDir(dir); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Catalog:     ENABLED (required)")
	logging.Info("    Fetch cache: %s", enabledString(config.FetchCacheTTL > 0))
	logging.Info("    Metrics:     %s", enabledString(config.MetricsEnabled))

	return config, nil
}

// prepareDir creates dir if needed and checks that files can be created in
// it.
func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	probe, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := probe.Name()
	if err := probe.Close(); err != nil {
		logging.Warn("failed to close write test file %s: %v", name, err)
	}
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write test file %s: %v", name, err)
	}
	return nil
}

// envParsed reads key with parse. An unset variable or a parse failure
// yields def.
func envParsed[T any](key string, def T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	parsed, err := parse(value)
	if err != nil {
		logging.Warn("Invalid value for %s: %q (%v), using default: %v", key, value, err, def)
		return def
	}
	return parsed
}

func getEnv(key, defaultValue string) string {
	return envParsed(key, defaultValue, func(s string) (string, error) { return s, nil })
}

func getEnvBool(key string, defaultValue bool) bool {
	return envParsed(key, defaultValue, strconv.ParseBool)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return envParsed(key, defaultValue, func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(s)
		if err == nil && d < 0 {
			err = errNegative
		}
		return d, err
	})
}

func getEnvInt64(key string, defaultValue int64) int64 {
	return envParsed(key, defaultValue, func(s string) (int64, error) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil && n < 0 {
			err = errNegative
		}
		return n, err
	})
}
