// internal/app/features/organizations/locations.go
package organizations

import (
	"context"
	"net/http"

	"github.com/dalemusser/timeclock/internal/app/system/htmlsanitize"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.uber.org/zap"
)

// ServeLocations handles GET /api/organization/locations.
func (h *Handler) ServeLocations(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	locs, err := h.Locations.ListByOrg(ctx, a.OrgID)
	if err != nil {
		h.Log.Error("locations: list", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	out := make([]locationView, 0, len(locs))
	for _, l := range locs {
		out = append(out, newLocationView(l))
	}
	respond.JSON(w, http.StatusOK, map[string][]locationView{"locations": out})
}

// HandleCreateLocation handles POST /api/organization/locations.
func (h *Handler) HandleCreateLocation(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var in locationInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}
	in.Name = htmlsanitize.TextMax(in.Name, 200)
	if v := inputval.Validate(in); v.HasErrors() {
		respond.Error(w, http.StatusBadRequest, "Invalid request", v.All())
		return
	}

	loc := models.Location{
		OrganizationID:  a.OrgID,
		Name:            in.Name,
		Coordinates:     models.LatLng(*in.Latitude, *in.Longitude),
		RadiusMeters:    in.RadiusMeters,
		AllowedNetworks: in.AllowedNetworks,
	}
	if len(in.OperatingHours) > 0 {
		loc.OperatingHours = make(map[string]models.DayHours, len(in.OperatingHours))
		for day, hrs := range in.OperatingHours {
			loc.OperatingHours[day] = models.DayHours{IsOpen: hrs.IsOpen, Open: hrs.Open, Close: hrs.Close}
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	loc, err := h.Locations.Create(ctx, loc)
	if err != nil {
		h.Log.Error("locations: create", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	h.AuditLog.LocationCreated(ctx, ratelimit.ClientIP(r), a.UserID, loc)

	respond.JSON(w, http.StatusCreated, newLocationView(loc))
}
