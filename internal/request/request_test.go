package request

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/remindful/todo-api/internal/models"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{name: "socket address with port", remoteAddr: "203.0.113.7:51442", want: "203.0.113.7"},
		{name: "socket address without port", remoteAddr: "203.0.113.7", want: "203.0.113.7"},
		{name: "first forwarded hop wins", remoteAddr: "10.0.0.1:80", xff: "198.51.100.4, 10.0.0.2", want: "198.51.100.4"},
		{name: "forwarded hop is trimmed", remoteAddr: "10.0.0.1:80", xff: "  198.51.100.4 ", want: "198.51.100.4"},
		{name: "real ip beats socket", remoteAddr: "10.0.0.1:80", realIP: "198.51.100.9", want: "198.51.100.9"},
		{name: "forwarded beats real ip", remoteAddr: "10.0.0.1:80", xff: "198.51.100.4", realIP: "198.51.100.9", want: "198.51.100.4"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserContextRoundTrip(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	if UserFromContext(r) != nil {
		t.Error("expected nil user on a bare request")
	}

	user := &models.User{ID: uuid.New(), Email: "owner@example.com"}
	r = r.WithContext(WithUser(r.Context(), user))
	got := UserFromContext(r)
	if got == nil || got.ID != user.ID {
		t.Errorf("UserFromContext() = %+v, want the attached user %s", got, user.ID)
	}
}
