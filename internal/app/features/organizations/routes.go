// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the organization routes under the base path
// (/api/organization from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeOrganization)
		pr.Get("/locations", h.ServeLocations)
	})

	// Admin-only changes
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Put("/time-zone", h.HandleSetTimeZone)
		pr.Post("/locations", h.HandleCreateLocation)
	})

	return r
}
