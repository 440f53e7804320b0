package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"m3u-parser/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go heap.
// The remainder covers goroutine stacks, SQLite page cache and cgo allocations.
const DefaultMemoryRatio = 0.9

// Limit sources reported in ConfigResult.Source.
const (
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
	SourceCgroup      = "cgroup"
	SourceNone        = "none"
)

// cgroupMemoryMax is the cgroup v2 memory limit file.
var cgroupMemoryMax = "/sys/fs/cgroup/memory.max"

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether a limit is in effect
	Configured bool

	// Source is one of the Source constants
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if unknown)
	ContainerLimit int64

	// GoMemLimit is the Go memory limit in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets the Go memory limit from the container limit.
// Call it early in main, before significant allocations.
//
// Environment variables:
//   - GOMEMLIMIT: honored as is when set (standard Go env var)
//   - MEMORY_LIMIT: container limit in bytes, e.g. from the Kubernetes Downward API
//   - MEMORY_RATIO: share of the container limit for the heap (default: 0.9)
//
// Without MEMORY_LIMIT the cgroup v2 limit is used when one is set.
func ConfigureFromEnv() ConfigResult {
	result := plan(os.Getenv)

	switch result.Source {
	case SourceGoMemLimit:
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", os.Getenv("GOMEMLIMIT"))
	case SourceNone:
		logging.Debug("No container memory limit found, GOMEMLIMIT not configured")
	default:
		debug.SetMemoryLimit(result.GoMemLimit)
		logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s %s limit)",
			formatBytes(result.GoMemLimit),
			result.Ratio*100,
			formatBytes(result.ContainerLimit),
			result.Source,
		)
	}

	return result
}

// plan works out the limit without applying it.
func plan(getenv func(string) string) ConfigResult {
	if getenv("GOMEMLIMIT") != "" {
		return ConfigResult{Configured: true, Source: SourceGoMemLimit}
	}

	source := SourceMemoryLimit
	limit, ok := parseLimit(getenv("MEMORY_LIMIT"))
	if !ok {
		if v := getenv("MEMORY_LIMIT"); v != "" {
			logging.Warn("Invalid MEMORY_LIMIT %q, ignoring", v)
		}
		source = SourceCgroup
		limit, ok = readCgroupLimit()
	}
	if !ok {
		return ConfigResult{Source: SourceNone}
	}

	ratio := DefaultMemoryRatio
	if v := getenv("MEMORY_RATIO"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err == nil && parsed > 0 && parsed <= 1.0 {
			ratio = parsed
		} else {
			logging.Warn("Invalid MEMORY_RATIO %q (want 0.0-1.0), using default %.2f", v, DefaultMemoryRatio)
		}
	}

	return ConfigResult{
		Configured:     true,
		Source:         source,
		ContainerLimit: limit,
		GoMemLimit:     int64(float64(limit) * ratio),
		Ratio:          ratio,
	}
}

func parseLimit(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// readCgroupLimit returns the cgroup v2 memory limit. "max" means none.
func readCgroupLimit() (int64, bool) {
	data, err := os.ReadFile(cgroupMemoryMax)
	if err != nil {
		return 0, false
	}
	return parseLimit(string(data))
}

// formatBytes formats bytes into human-readable string
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
