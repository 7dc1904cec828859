package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the JSON error body. Only the debug and health routes use
// it; the daily-report routes embed failures in their own payload and answer
// 200 so dashboards keep rendering through an outage.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v into a buffer first so an encoding failure can still
// become a clean error response instead of a half-written body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
		writeErrorFallback(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

// writeError sends an errorResponse. The public message is what clients see;
// keep it generic for 5xx and log the underlying error instead.
func writeError(w http.ResponseWriter, status int, public string, err error) {
	if public == "" {
		public = http.StatusText(status)
	}
	if status >= 500 && err != nil {
		slog.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: public})
}

// writeErrorFallback answers in plain text when JSON encoding itself failed,
// so writeError cannot recurse.
func writeErrorFallback(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(message))
}
