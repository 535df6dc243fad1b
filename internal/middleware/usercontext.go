package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/request"
	"github.com/remindful/todo-api/internal/store"
	"go.uber.org/zap"
)

// UserHeader is the header identifying the acting user. Authentication is
// out of scope for this service; the header is trusted as-is and resolved
// against the user store so unknown ids are still rejected.
const UserHeader = "X-User-ID"

// UserContext resolves the acting user from the X-User-ID header and attaches
// it to the request context. Requests without a resolvable user get 401.
func UserContext(users store.UserLookup, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserHeader)
			if raw == "" {
				http.Error(w, "X-User-ID header is required", http.StatusUnauthorized)
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "X-User-ID must be a valid UUID", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					http.Error(w, "unknown user", http.StatusUnauthorized)
					return
				}
				logger.Error("user_lookup_failed",
					zap.String("user_id", id.String()),
					zap.Error(err),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(r.Context(), user)))
		})
	}
}
