package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON marshals v as JSON and writes it to w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// Error is the JSON error envelope for non-webhook endpoints.
type Error struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// WriteError writes an error envelope with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, message, correlationID string) {
	WriteJSON(w, statusCode, Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
	})
}
