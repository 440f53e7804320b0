// Package memory configures the Go runtime memory limit for containers.
//
// A service that parses large uploaded playlists can be OOM killed by the
// container runtime long before the Go garbage collector feels any pressure,
// because GOGC alone ignores the container limit. ConfigureFromEnv sets
// GOMEMLIMIT to a share of that limit so the collector works harder as the
// heap approaches it.
//
// Limits are taken, in order, from GOMEMLIMIT itself, from MEMORY_LIMIT, and
// from the cgroup v2 memory.max file.
package memory
