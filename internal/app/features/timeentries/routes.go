// internal/app/features/timeentries/routes.go
package timeentries

import (
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the time entry reads; mounted under /api/time-entries.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeList)
	r.Get("/open", h.ServeOpen)
	return r
}
