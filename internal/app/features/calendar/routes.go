// internal/app/features/calendar/routes.go
package calendar

import (
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves GET /; mounted under /api/schedule.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeSchedule)
	return r
}
