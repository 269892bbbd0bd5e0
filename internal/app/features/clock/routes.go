// internal/app/features/clock/routes.go
package clock

import (
	"time"

	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers POST /api/clock-in and POST /api/clock-out. Unauthenticated
// calls still reach the handlers so they answer with the clock error body.
func MountRoutes(r chi.Router, h *Handler, perMinute int) {
	r.Group(func(g chi.Router) {
		g.Use(ratelimit.ByEmployee(perMinute, time.Minute))
		g.Post("/api/clock-in", h.HandleClockIn)
		g.Post("/api/clock-out", h.HandleClockOut)
	})
}
