package workers

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCount(t *testing.T) {
	t.Setenv(OverrideEnv, "")
	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		maxExpect  int
	}{
		{"CPU-bound", 1.0, 0, availableCPU},
		{"I/O-bound", 2.0, 0, availableCPU * 2},
		{"Limit lower than calculated", 2.0, 2, 2},
		{"Very low multiplier", 0.1, 0, max(1, int(float64(availableCPU)*0.1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < 1 {
				t.Errorf("Count(%v, %d) = %d, should never return less than 1", tt.multiplier, tt.limit, got)
			}
			if got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, expected <= %d", tt.multiplier, tt.limit, got, tt.maxExpect)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int // 0 means fall back to the calculated count
	}{
		{"Valid override", "8", 0, 8},
		{"Override capped by limit", "20", 10, 10},
		{"Override below limit", "5", 10, 5},
		{"Non-numeric", "invalid", 0, 0},
		{"Zero", "0", 0, 0},
		{"Negative", "-5", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(OverrideEnv, tt.envValue)

			got := Count(1.0, tt.limit)
			if tt.expected == 0 {
				if got < 1 {
					t.Errorf("Count with invalid override should return at least 1, got %d", got)
				}
				return
			}
			if got != tt.expected {
				t.Errorf("Count(1.0, %d) with %s=%s = %d, want %d", tt.limit, OverrideEnv, tt.envValue, got, tt.expected)
			}
		})
	}
}

func TestForHelpersRespectLimit(t *testing.T) {
	t.Setenv(OverrideEnv, "")

	for name, fn := range map[string]func(int) int{"ForCPU": ForCPU, "ForIO": ForIO, "ForMixed": ForMixed} {
		if got := fn(1); got != 1 {
			t.Errorf("%s(1) = %d, want 1", name, got)
		}
	}
	if ForIO(0) < ForCPU(0) {
		t.Error("Expected ForIO to allow at least as many workers as ForCPU")
	}
}

func TestEachVisitsEveryIndex(t *testing.T) {
	const n = 50
	var mu sync.Mutex
	seen := make(map[int]int)

	Each(context.Background(), 4, n, func(_ context.Context, i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})

	if len(seen) != n {
		t.Fatalf("Expected %d indexes visited, got %d", n, len(seen))
	}
	for i, count := range seen {
		if count != 1 {
			t.Errorf("Index %d visited %d times", i, count)
		}
	}
}

func TestEachBoundsConcurrency(t *testing.T) {
	var running, peak int32
	Each(context.Background(), 3, 30, func(_ context.Context, _ int) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		runtime.Gosched()
		atomic.AddInt32(&running, -1)
	})

	if peak > 3 {
		t.Errorf("Expected at most 3 concurrent calls, saw %d", peak)
	}
}

func TestEachEmptyAndCancelled(t *testing.T) {
	calls := 0
	Each(context.Background(), 4, 0, func(context.Context, int) { calls++ })
	if calls != 0 {
		t.Errorf("Expected no calls for n=0, got %d", calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var cancelledCalls int32
	Each(ctx, 2, 100, func(context.Context, int) { atomic.AddInt32(&cancelledCalls, 1) })
	if cancelledCalls == 100 {
		t.Error("Expected cancellation to skip remaining indexes")
	}
}

func BenchmarkCount(b *testing.B) {
	b.Setenv(OverrideEnv, "")
	for i := 0; i < b.N; i++ {
		_ = Count(1.5, 10)
	}
}
