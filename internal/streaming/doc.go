/*
Package streaming writes long HTTP responses without letting a slow or
vanished client hold the handler forever.

Writer sets a fresh write deadline on the connection before every write
using http.ResponseController, flushes every FlushBytes bytes so clients
see data early, and stops as soon as the request context ends.

	sw := streaming.NewWriter(r.Context(), w, streaming.DefaultWriterConfig())
	bw := bufio.NewWriter(sw)
	if err := playlist.Write(bw, entries); err == nil {
		err = bw.Flush()
	}
	if err := sw.Close(); err != nil {
		logging.Warn("export: %v", err)
	}

Response writers that do not support deadlines or flushing, such as
httptest.ResponseRecorder, are written to without them.
*/
package streaming
