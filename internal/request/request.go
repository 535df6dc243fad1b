package request

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/remindful/todo-api/internal/models"
)

// userKey is an unexported struct type so no other package can collide with
// the user value in a context.
type userKey struct{}

// ClientIP returns the originating client address for rate-limit keying.
// Proxy headers win over the socket address: the first X-Forwarded-For hop,
// then X-Real-IP, then RemoteAddr with its port stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithUser attaches the acting user to the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the acting user, or nil when none was attached.
func UserFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey{}).(*models.User)
	return user
}
