package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"m3u-parser/internal/database"
	"m3u-parser/internal/logging"
	"m3u-parser/internal/metrics"
	"m3u-parser/internal/playlist"
	"m3u-parser/internal/source"
	"m3u-parser/internal/streaming"
	"m3u-parser/internal/workers"

	"github.com/gorilla/mux"
)

const (
	defaultEntryLimit = 100
	maxEntryLimit     = 1000
	maxImportURLs     = 100
	defaultName       = "playlist"
)

// CreateRequest is the JSON form of a playlist import.
type CreateRequest struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Refresh bool   `json:"refresh"` // bypass the fetch cache
}

// ImportRequest lists remote playlists to import.
type ImportRequest struct {
	URLs    []string `json:"urls"`
	Refresh bool     `json:"refresh"`
}

// ImportResult is the outcome of one URL of an import request.
type ImportResult struct {
	URL      string             `json:"url"`
	Playlist *database.Playlist `json:"playlist,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// ImportResponse is returned by ImportPlaylists.
type ImportResponse struct {
	Imported int            `json:"imported"`
	Failed   int            `json:"failed"`
	Results  []ImportResult `json:"results"`
}

// nameFromURL derives a playlist name from the last path segment of a URL.
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultName
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		if u.Host != "" {
			return u.Host
		}
		return defaultName
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// importURL fetches, parses and stores one remote playlist.
func (h *Handlers) importURL(ctx context.Context, name, rawURL string, refresh bool) (*database.Playlist, error) {
	metrics.ImportJobsInProgress.Inc()
	defer metrics.ImportJobsInProgress.Dec()

	if refresh {
		h.opener.Fetcher().Forget(rawURL)
	}
	p, err := h.fetchAndStore(ctx, name, rawURL)
	if err != nil {
		metrics.ImportJobsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ImportJobsTotal.WithLabelValues("success").Inc()
	return p, nil
}

func (h *Handlers) fetchAndStore(ctx context.Context, name, rawURL string) (*database.Playlist, error) {
	if !source.IsRemote(rawURL) {
		return nil, fmt.Errorf("%w: %s", source.ErrUnsupportedScheme, rawURL)
	}
	if name == "" {
		name = nameFromURL(rawURL)
	}

	start := time.Now()
	rc, err := h.opener.Open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			logging.Warn("failed to close %s: %v", rawURL, closeErr)
		}
	}()

	entries, parseErrs, err := h.parse(rc)
	if err != nil {
		return nil, err
	}

	p, err := h.db.SavePlaylist(ctx, name, rawURL, entries, parseErrs)
	if err != nil {
		return nil, err
	}
	logging.Info("Imported %s as %s: %d entries, %d parse errors in %v",
		rawURL, p.ID, p.EntryCount, p.ErrorCount, time.Since(start))
	return p, nil
}

// importStatus maps an import failure to an HTTP status.
func importStatus(err error) int {
	var statusErr *source.StatusError
	switch {
	case errors.Is(err, source.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// CreatePlaylist imports a single playlist. A JSON body names a remote URL;
// any other body is the playlist text itself, named by the name query
// parameter.
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req CreateRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.URL == "" {
			writeJSONError(w, "url is required", http.StatusBadRequest)
			return
		}

		p, err := h.importURL(r.Context(), req.Name, req.URL, req.Refresh)
		if err != nil {
			logging.Warn("Import of %s failed: %v", req.URL, err)
			writeJSONError(w, err.Error(), importStatus(err))
			return
		}
		writeJSONCode(w, p, http.StatusCreated)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultName
	}

	metrics.ImportJobsInProgress.Inc()
	defer metrics.ImportJobsInProgress.Dec()

	entries, parseErrs, err := h.parse(body)
	if err != nil {
		metrics.ImportJobsTotal.WithLabelValues("error").Inc()
		writeSourceError(w, err)
		return
	}

	p, err := h.db.SavePlaylist(r.Context(), name, "", entries, parseErrs)
	if err != nil {
		metrics.ImportJobsTotal.WithLabelValues("error").Inc()
		writeCatalogError(w, err, "save playlist")
		return
	}
	metrics.ImportJobsTotal.WithLabelValues("success").Inc()
	writeJSONCode(w, p, http.StatusCreated)
}

// ImportPlaylists fetches and stores several remote playlists concurrently.
// Failures are reported per URL and do not fail the request.
func (h *Handlers) ImportPlaylists(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		writeJSONError(w, "urls is required", http.StatusBadRequest)
		return
	}
	if len(req.URLs) > maxImportURLs {
		writeJSONError(w, fmt.Sprintf("at most %d urls per request", maxImportURLs), http.StatusBadRequest)
		return
	}

	n := h.importWorkers
	if n <= 0 {
		n = workers.ForIO(16)
	}

	results := make([]ImportResult, len(req.URLs))
	for i, u := range req.URLs {
		results[i] = ImportResult{URL: u}
	}

	workers.Each(r.Context(), n, len(req.URLs), func(ctx context.Context, i int) {
		p, err := h.importURL(ctx, "", req.URLs[i], req.Refresh)
		if err != nil {
			logging.Warn("Import of %s failed: %v", req.URLs[i], err)
			results[i].Error = err.Error()
			return
		}
		results[i].Playlist = p
	})

	resp := ImportResponse{Results: results}
	for i := range results {
		switch {
		case results[i].Playlist != nil:
			resp.Imported++
		case results[i].Error == "":
			// Skipped after the request was cancelled.
			results[i].Error = context.Canceled.Error()
			resp.Failed++
		default:
			resp.Failed++
		}
	}

	writeJSONCode(w, resp, http.StatusOK)
}

// ListPlaylists returns all stored playlists, newest first.
func (h *Handlers) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.db.ListPlaylists(r.Context())
	if err != nil {
		writeCatalogError(w, err, "list playlists")
		return
	}
	if playlists == nil {
		playlists = []database.Playlist{}
	}
	writeJSONCode(w, playlists, http.StatusOK)
}

// GetPlaylist returns the summary of one playlist.
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.GetPlaylist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeCatalogError(w, err, "get playlist")
		return
	}
	writeJSONCode(w, p, http.StatusOK)
}

// DeletePlaylist removes a playlist with its entries and parse errors.
func (h *Handlers) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.db.DeletePlaylist(r.Context(), id); err != nil {
		writeCatalogError(w, err, "delete playlist")
		return
	}
	logging.Info("Deleted playlist %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetEntries returns a page of stored entries.
func (h *Handlers) GetEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultEntryLimit)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if limit == 0 {
		limit = defaultEntryLimit
	}
	if limit > maxEntryLimit {
		limit = maxEntryLimit
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.db.GetEntries(r.Context(), mux.Vars(r)["id"], database.EntryQuery{
		Limit:  limit,
		Offset: offset,
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeCatalogError(w, err, "get entries")
		return
	}
	writeJSONCode(w, page, http.StatusOK)
}

// GetParseErrors returns the parse errors recorded at import.
func (h *Handlers) GetParseErrors(w http.ResponseWriter, r *http.Request) {
	parseErrs, err := h.db.GetParseErrors(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeCatalogError(w, err, "get parse errors")
		return
	}
	if parseErrs == nil {
		parseErrs = []playlist.ParseError{}
	}
	writeJSONCode(w, map[string]interface{}{"errors": parseErrs}, http.StatusOK)
}

// ExportPlaylist writes the stored entries back out as an extended M3U file.
func (h *Handlers) ExportPlaylist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.db.GetPlaylist(r.Context(), id)
	if err != nil {
		writeCatalogError(w, err, "export playlist")
		return
	}
	page, err := h.db.GetEntries(r.Context(), id, database.EntryQuery{})
	if err != nil {
		writeCatalogError(w, err, "export playlist")
		return
	}

	w.Header().Set("Content-Type", "audio/x-mpegurl; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": p.Name + ".m3u8",
	}))
	sw := streaming.NewWriter(r.Context(), w, streaming.DefaultWriterConfig())
	bw := bufio.NewWriter(sw)
	err = playlist.Write(bw, page.Entries)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := sw.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logging.Warn("Export of playlist %s aborted: %v", id, err)
	}
}
