/*
Package filesystem opens local playlist files with retry on NFS stale file
handle errors.

Playlists are often kept on network shares. When the server side replaces
a file, clients can see ESTALE (errno 116) for a short while. StatWithRetry
and OpenWithRetry retry only that error, with exponential backoff; every
other error is returned at once.

	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer f.Close()

Defaults are 3 retries starting at 50ms and capped at 500ms.

Retry activity is reported to an Observer set with SetObserver. The metrics
package provides the Prometheus implementation; with no observer set nothing
is recorded.
*/
package filesystem
