// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// MountRoutes adds POST /login, limited per client address, and GET /api/me.
func MountRoutes(r chi.Router, h *Handler) {
	r.With(ratelimit.ByIP(ratelimit.DefaultLoginLimit, ratelimit.DefaultLoginWindow)).Post("/login", h.HandleLogin)
	r.Get("/api/me", h.ServeMe)
}
