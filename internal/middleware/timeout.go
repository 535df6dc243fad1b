package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a request when no explicit budget is given.
const DefaultRequestTimeout = 30 * time.Second

const timeoutBody = `{"success":false,"error":"Request Timeout","message":"The request took too long to complete"}`

// Timeout cuts off handlers that exceed their time budget with a 503 in the
// API's envelope. The request context is given the same deadline, so
// handlers that honor it can stop doing work the client will never see.
func Timeout(budget time.Duration) func(http.Handler) http.Handler {
	if budget <= 0 {
		budget = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		deadlined := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), budget)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return http.TimeoutHandler(deadlined, budget, timeoutBody)
	}
}
