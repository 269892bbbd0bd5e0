// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/go-chi/httprate"
)

// Defaults for the clock endpoints: a person tapping the button a few times is fine,
// a script hammering it is not.
const (
	DefaultClockLimit  = 10
	DefaultClockWindow = time.Minute
	DefaultLoginLimit  = 10
	DefaultLoginWindow = time.Minute
)

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (comma-separated list, first is client)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr (strip port)
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// employeeKey keys on the signed-in user, or on the client IP for anonymous requests.
func employeeKey(r *http.Request) (string, error) {
	if u, ok := auth.CurrentUser(r); ok {
		return "user:" + u.ID, nil
	}
	return "ip:" + ClientIP(r), nil
}

func tooMany(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, http.StatusTooManyRequests, "Too many requests. Please wait a minute and try again.", "")
}

// ByEmployee limits requests per signed-in user. It must run after the session user
// has been loaded.
func ByEmployee(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultClockLimit
	}
	if window <= 0 {
		window = DefaultClockWindow
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(employeeKey),
		httprate.WithLimitHandler(tooMany),
	)
}

// ByIP limits requests per client IP, e.g. sign-in attempts.
func ByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultLoginLimit
	}
	if window <= 0 {
		window = DefaultLoginWindow
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return ClientIP(r), nil
		}),
		httprate.WithLimitHandler(tooMany),
	)
}
