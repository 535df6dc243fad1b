package handlers

import (
	"fmt"
	"net/http"
	"time"
)

// HealthCheck reports liveness. The store is in-process memory, so a serving
// process is a healthy process.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
