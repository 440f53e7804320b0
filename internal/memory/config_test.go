package memory

import (
	"os"
	"path/filepath"
	"testing"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// withCgroupFile points the cgroup lookup at a temp file holding content,
// or at a missing file when content is empty.
func withCgroupFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.max")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	old := cgroupMemoryMax
	cgroupMemoryMax = path
	t.Cleanup(func() { cgroupMemoryMax = old })
}

func TestPlan(t *testing.T) {
	var gib int64 = 1 << 30

	tests := []struct {
		name       string
		vars       map[string]string
		cgroup     string
		source     string
		configured bool
		container  int64
		goLimit    int64
		ratio      float64
	}{
		{
			name:   "Nothing set",
			source: SourceNone,
		},
		{
			name:       "GOMEMLIMIT wins",
			vars:       map[string]string{"GOMEMLIMIT": "512MiB", "MEMORY_LIMIT": "1073741824"},
			source:     SourceGoMemLimit,
			configured: true,
		},
		{
			name:       "MEMORY_LIMIT with default ratio",
			vars:       map[string]string{"MEMORY_LIMIT": "1073741824"},
			source:     SourceMemoryLimit,
			configured: true,
			container:  gib,
			goLimit:    int64(float64(gib) * DefaultMemoryRatio),
			ratio:      DefaultMemoryRatio,
		},
		{
			name:       "Custom ratio",
			vars:       map[string]string{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "0.5"},
			source:     SourceMemoryLimit,
			configured: true,
			container:  gib,
			goLimit:    gib / 2,
			ratio:      0.5,
		},
		{
			name:       "Ratio out of range",
			vars:       map[string]string{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "1.5"},
			source:     SourceMemoryLimit,
			configured: true,
			container:  gib,
			goLimit:    int64(float64(gib) * DefaultMemoryRatio),
			ratio:      DefaultMemoryRatio,
		},
		{
			name:       "Invalid MEMORY_LIMIT falls back to cgroup",
			vars:       map[string]string{"MEMORY_LIMIT": "lots"},
			cgroup:     "2147483648\n",
			source:     SourceCgroup,
			configured: true,
			container:  2 * gib,
			goLimit:    int64(float64(2*gib) * DefaultMemoryRatio),
			ratio:      DefaultMemoryRatio,
		},
		{
			name:   "Negative MEMORY_LIMIT",
			vars:   map[string]string{"MEMORY_LIMIT": "-5"},
			source: SourceNone,
		},
		{
			name:   "Unlimited cgroup",
			cgroup: "max\n",
			source: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCgroupFile(t, tt.cgroup)

			got := plan(env(tt.vars))
			if got.Source != tt.source {
				t.Errorf("Source = %q, want %q", got.Source, tt.source)
			}
			if got.Configured != tt.configured {
				t.Errorf("Configured = %v, want %v", got.Configured, tt.configured)
			}
			if got.ContainerLimit != tt.container {
				t.Errorf("ContainerLimit = %d, want %d", got.ContainerLimit, tt.container)
			}
			if got.GoMemLimit != tt.goLimit {
				t.Errorf("GoMemLimit = %d, want %d", got.GoMemLimit, tt.goLimit)
			}
			if got.Ratio != tt.ratio {
				t.Errorf("Ratio = %v, want %v", got.Ratio, tt.ratio)
			}
		})
	}
}

func TestConfigureFromEnvWithoutLimit(t *testing.T) {
	withCgroupFile(t, "")
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")

	result := ConfigureFromEnv()
	if result.Configured {
		t.Errorf("Expected no limit to be configured, got %+v", result)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
