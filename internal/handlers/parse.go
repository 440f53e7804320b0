package handlers

import (
	"errors"
	"io"
	"net/http"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/playlist"
)

// ParseResponse is the result of parsing a playlist.
type ParseResponse struct {
	Count   int                   `json:"count"`
	Entries []*playlist.Entry     `json:"entries"`
	Errors  []playlist.ParseError `json:"errors"`
}

// parse runs a full parse of r. Entries read before a source failure are
// returned together with the error.
func (h *Handlers) parse(r io.Reader) ([]*playlist.Entry, []playlist.ParseError, error) {
	stream := h.parser.ParseReader(r)
	entries, err := stream.Collect()
	if entries == nil {
		entries = []*playlist.Entry{}
	}
	return entries, stream.Errors(), err
}

// writeSourceError maps a fatal read failure of a request body.
func writeSourceError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSONError(w, "Playlist exceeds upload limit", http.StatusRequestEntityTooLarge)
		return
	}
	logging.Warn("Failed to read playlist: %v", err)
	writeJSONError(w, "Failed to read playlist: "+err.Error(), http.StatusBadRequest)
}

// ParsePlaylist parses the request body and returns its entries and parse
// errors without storing anything.
func (h *Handlers) ParsePlaylist(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	entries, parseErrs, err := h.parse(body)
	if err != nil {
		writeSourceError(w, err)
		return
	}

	writeJSONCode(w, ParseResponse{
		Count:   len(entries),
		Entries: entries,
		Errors:  parseErrs,
	}, http.StatusOK)
}

// ListTags returns the registered tag names in match order.
func (h *Handlers) ListTags(w http.ResponseWriter, _ *http.Request) {
	writeJSONCode(w, map[string][]string{"tags": h.registry.Names()}, http.StatusOK)
}
