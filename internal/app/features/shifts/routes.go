// internal/app/features/shifts/routes.go
package shifts

import (
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves the shift admin endpoints; mounted under /api/shifts.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))
	r.Post("/", h.HandleCreate)
	r.Delete("/groups/{groupID}", h.HandleDeleteGroup)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
