// internal/app/features/calendar/handler.go
package calendar

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/timeclock/internal/app/schedule"
	"github.com/dalemusser/timeclock/internal/app/system/authz"
	"github.com/dalemusser/timeclock/internal/app/system/orgutil"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxDays bounds one calendar query.
const MaxDays = 62

// Scheduler computes effective shifts.
type Scheduler interface {
	EffectiveShifts(ctx context.Context, q schedule.Query) ([]schedule.EffectiveShift, error)
}

type Handler struct {
	Orgs     orgutil.OrgGetter
	Schedule Scheduler
	Log      *zap.Logger
}

func NewHandler(orgs orgutil.OrgGetter, sched Scheduler, logger *zap.Logger) *Handler {
	return &Handler{Orgs: orgs, Schedule: sched, Log: logger}
}

type calendarResponse struct {
	TimeZone string          `json:"timeZone"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Shifts   []schedule.View `json:"shifts"`
}

// ServeSchedule handles GET /api/schedule?start=YYYY-MM-DD&end=YYYY-MM-DD[&employee_id=].
// Dates are local to the organization's zone and both are inclusive.
func (h *Handler) ServeSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	employeeID, err := authz.EmployeeScope(actor, r.URL.Query().Get("employee_id"))
	if err != nil {
		writeScopeError(w, err)
		return
	}

	startDate, endDate := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if startDate == "" || endDate == "" {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "start and end are required (YYYY-MM-DD).")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Range())
	defer cancel()

	_, loc, err := orgutil.Zone(ctx, h.Orgs, actor.OrgID, h.Log)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusForbidden, "No organization", "Your organization no longer exists.")
		return
	}
	if err != nil {
		h.Log.Error("calendar: load organization", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	start, end, err := orgutil.DateRange(loc, startDate, endDate)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "start and end must be dates in YYYY-MM-DD format.")
		return
	}
	if end.Before(start) {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "end must not be before start.")
		return
	}
	if orgutil.Days(loc, start, end) > MaxDays {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "The range may cover at most 62 days.")
		return
	}

	shifts, err := h.Schedule.EffectiveShifts(ctx, schedule.Query{
		OrganizationID: actor.OrgID,
		EmployeeID:     employeeID,
		Start:          start,
		End:            end,
		Location:       loc,
	})
	if err != nil {
		h.Log.Error("calendar: resolve schedule", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	views := make([]schedule.View, 0, len(shifts))
	for _, s := range shifts {
		views = append(views, schedule.ToView(s, loc))
	}
	respond.JSON(w, http.StatusOK, calendarResponse{
		TimeZone: loc.String(),
		Start:    startDate,
		End:      endDate,
		Shifts:   views,
	})
}

func writeScopeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrNoOrganization):
		respond.Error(w, http.StatusForbidden, "No organization", "Your account is not part of an organization.")
	case errors.Is(err, authz.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Forbidden", "You can only view your own schedule.")
	default:
		respond.Error(w, http.StatusBadRequest, "Invalid request", "employee_id must be a valid id.")
	}
}
