/*
Package workers sizes and runs the worker pool used for batch playlist
imports.

Imports are network bound, so callers use ForIO, which allows two workers per
available CPU. GOMAXPROCS is used instead of runtime.NumCPU so container CPU
limits are respected (Go 1.19+ sets GOMAXPROCS from the cgroup quota).

	n := workers.ForIO(16)
	workers.Each(ctx, n, len(urls), func(ctx context.Context, i int) {
		results[i] = importOne(ctx, urls[i])
	})

Operators can fix the count with the IMPORT_WORKERS environment variable; it
is still capped by the limit passed by the caller. Invalid or non-positive
values are ignored.
*/
package workers
