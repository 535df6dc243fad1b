package middleware

import (
	"net/http"

	logpkg "github.com/remindful/todo-api/internal/logger"
	"go.uber.org/zap"
)

// Responder writes an error response in the API's envelope. It is injected
// rather than imported so this package stays below the handler layer.
type Responder func(w http.ResponseWriter, status int, errorType, message string)

// Recovery converts handler panics into 500 responses. The panic value and
// stack stay in the log; the client only sees the generic envelope.
func Recovery(logger *zap.Logger, respond Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic_recovered",
					zap.Any("panic", v),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.Stack("stack"),
				)
				respond(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
