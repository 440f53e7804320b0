package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"m3u-parser/internal/database"
	"m3u-parser/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONCode writes v as JSON with the given status code.
func writeJSONCode(w http.ResponseWriter, v interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONCode(w, map[string]string{"error": message}, statusCode)
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string, statusCode int) {
	writeJSONCode(w, map[string]string{"status": status}, statusCode)
}

// writeCatalogError maps catalog errors to responses.
func writeCatalogError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "Playlist not found", http.StatusNotFound)
		return
	}
	logging.Error("Failed to %s: %v", action, err)
	writeJSONError(w, "Failed to "+action, http.StatusInternalServerError)
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}
