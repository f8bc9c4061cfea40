// Package response centralizes the wire shapes the API writes. Handler
// payloads are returned as-is; failures use a flat {"error": ...} body and
// middleware rejections use {"message": ...}.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, map[string]string{"error": message})
}

// Reject is the middleware-level refusal shape, distinct from handler errors
// so clients can tell a gate rejection from a domain failure.
func Reject(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, map[string]string{"message": message})
}
