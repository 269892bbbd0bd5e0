// internal/app/features/organizations/organization.go
package organizations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/timeclock/internal/app/system/authz"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// actor returns the signed-in user, answering 401/403 itself when there is none
// or it has no organization.
func actor(w http.ResponseWriter, r *http.Request) (authz.Actor, bool) {
	a, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return a, false
	}
	if a.OrgID.IsZero() {
		respond.Error(w, http.StatusForbidden, "No organization", "Your account is not part of an organization.")
		return a, false
	}
	return a, true
}

// ServeOrganization handles GET /api/organization.
func (h *Handler) ServeOrganization(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, a.OrgID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusForbidden, "No organization", "Your organization no longer exists.")
		return
	}
	if err != nil {
		h.Log.Error("organization: load", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	respond.JSON(w, http.StatusOK, newOrgView(org, a.IsAdmin()))
}

type timeZoneInput struct {
	TimeZone string `json:"timeZone" validate:"required,max=100" label:"timeZone"`
}

// HandleSetTimeZone handles PUT /api/organization/time-zone. The display string is
// stored as entered but must name a zone the curated list knows.
func (h *Handler) HandleSetTimeZone(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in timeZoneInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}
	in.TimeZone = strings.TrimSpace(in.TimeZone)
	if v := inputval.Validate(in); v.HasErrors() {
		respond.Error(w, http.StatusBadRequest, "Invalid request", v.All())
		return
	}
	if _, known := timezones.Resolve(in.TimeZone); !known {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Unknown time zone. Choose one from /api/timezones.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, a.OrgID)
	if err == nil {
		err = h.Orgs.SetTimeZone(ctx, a.OrgID, in.TimeZone)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusForbidden, "No organization", "Your organization no longer exists.")
		return
	}
	if err != nil {
		h.Log.Error("organization: set time zone", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	h.AuditLog.OrgTimeZoneUpdated(ctx, ratelimit.ClientIP(r), a.UserID, a.OrgID, org.TimeZone, in.TimeZone)

	org.TimeZone = in.TimeZone
	respond.JSON(w, http.StatusOK, newOrgView(org, true))
}

// ServeTimeZones handles GET /api/timezones: the curated zones, grouped by region.
func (h *Handler) ServeTimeZones(w http.ResponseWriter, r *http.Request) {
	groups, err := timezones.Groups()
	if err != nil {
		h.Log.Error("timezones: load", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"default": timezones.Default(),
		"groups":  groups,
	})
}
