package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/remindful/todo-api/internal/service"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondJSONError sends an error JSON response. Exported so middleware that
// cannot import this package's handlers directly (e.g. panic recovery) can
// still answer in the same envelope.
func RespondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if len(message) > 200 {
		message = message[:200] + "..."
	}

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondServiceError maps service-layer errors onto HTTP status codes:
// not-found -> 404, validation -> 400, conflict -> 409, anything else -> 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsNotFound(err):
		RespondJSONError(w, http.StatusNotFound, "Not Found", err.Error())
	case service.IsValidation(err):
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
	case service.IsConflict(err):
		RespondJSONError(w, http.StatusConflict, "Conflict", err.Error())
	default:
		RespondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}
