// internal/app/features/templates/routes.go
package templates

import (
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves the weekly template endpoints; mounted under /api/templates.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/{employeeID}", h.ServeTemplate)
	r.With(sm.RequireRole(models.RoleAdmin)).Put("/{employeeID}", h.HandleSave)
	return r
}
