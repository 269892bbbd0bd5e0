// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is mounted
// (/api/audit from bootstrap). Admins only; events are scoped to their organization.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}
