// internal/app/features/shifts/handler.go
package shifts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/timeclock/internal/app/schedule"
	locationstore "github.com/dalemusser/timeclock/internal/app/store/locations"
	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	shiftstore "github.com/dalemusser/timeclock/internal/app/store/shifts"
	userstore "github.com/dalemusser/timeclock/internal/app/store/users"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/app/system/authz"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/orgutil"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxRepeatWeeks bounds how many weekly copies one request may create.
const MaxRepeatWeeks = 52

type Handler struct {
	Orgs      *organizationstore.Store
	Users     *userstore.Store
	Locations *locationstore.Store
	Shifts    *shiftstore.Store
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:      organizationstore.New(db),
		Users:     userstore.New(db),
		Locations: locationstore.New(db),
		Shifts:    shiftstore.New(db),
		AuditLog:  audit,
		Log:       logger,
	}
}

// createInput describes a shift in the organization's local time. An end at or
// before the start ends on the following day.
type createInput struct {
	EmployeeID  string `json:"employeeId" validate:"required,objectid" label:"employeeId"`
	LocationID  string `json:"locationId" validate:"required,objectid" label:"locationId"`
	Date        string `json:"date" validate:"required,ymd" label:"date"`
	Start       string `json:"start" validate:"required,hhmm" label:"start"`
	End         string `json:"end" validate:"required,hhmm" label:"end"`
	RepeatWeeks int    `json:"repeatWeeks" validate:"min=0,max=52" label:"repeatWeeks"`
	Status      string `json:"status" validate:"omitempty,oneof=scheduled cancelled" label:"status"`
}

type createResponse struct {
	RecurrenceGroupID string          `json:"recurrenceGroupId,omitempty"`
	Shifts            []schedule.View `json:"shifts"`
}

type deleteResponse struct {
	Deleted int64 `json:"deleted"`
}

func internalError(w http.ResponseWriter) {
	respond.Error(w, http.StatusInternalServerError, "Internal error", "")
}

// HandleCreate handles POST /api/shifts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, "Invalid request", res.All())
		return
	}
	empID, _ := primitive.ObjectIDFromHex(in.EmployeeID)
	locID, _ := primitive.ObjectIDFromHex(in.LocationID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Bulk())
	defer cancel()

	emp, err := h.Users.GetByID(ctx, empID)
	if err == nil && (emp.OrganizationID == nil || *emp.OrganizationID != actor.OrgID) {
		err = mongo.ErrNoDocuments
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "Not found", "Employee not found.")
		return
	}
	if err != nil {
		h.Log.Error("shifts: load employee", zap.Error(err))
		internalError(w)
		return
	}

	loc, err := h.Locations.GetInOrg(ctx, actor.OrgID, locID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "Not found", "Location not found.")
		return
	}
	if err != nil {
		h.Log.Error("shifts: load location", zap.Error(err))
		internalError(w)
		return
	}

	_, zone, err := orgutil.Zone(ctx, h.Orgs, actor.OrgID, h.Log)
	if err != nil {
		h.Log.Error("shifts: load organization", zap.Error(err))
		internalError(w)
		return
	}

	var groupID string
	if in.RepeatWeeks > 0 {
		groupID = uuid.NewString()
	}
	first, err := time.Parse(timezones.DateLayout, in.Date)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "date must be a date in YYYY-MM-DD format.")
		return
	}

	batch := make([]models.Shift, 0, in.RepeatWeeks+1)
	for week := 0; week <= in.RepeatWeeks; week++ {
		date := first.AddDate(0, 0, 7*week).Format(timezones.DateLayout)
		start, end, err := occurrence(zone, date, in.Start, in.End)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
		batch = append(batch, models.Shift{
			OrganizationID:    actor.OrgID,
			EmployeeID:        emp.ID,
			EmployeeName:      emp.FullName,
			LocationID:        loc.ID,
			LocationName:      loc.Name,
			Start:             start,
			End:               end,
			Status:            in.Status,
			RecurrenceGroupID: groupID,
		})
	}

	created, err := h.Shifts.CreateMany(ctx, batch)
	if err != nil {
		h.Log.Error("shifts: create", zap.Error(err))
		internalError(w)
		return
	}
	h.AuditLog.ShiftsCreated(ctx, ratelimit.ClientIP(r), actor.UserID, emp.ID, actor.OrgID, len(created), groupID)

	views := make([]schedule.View, 0, len(created))
	for _, sh := range created {
		views = append(views, schedule.ToView(schedule.NewReal(sh), zone))
	}
	respond.JSON(w, http.StatusCreated, createResponse{RecurrenceGroupID: groupID, Shifts: views})
}

// occurrence places one local date and "HH:mm" pair in zone, each end of the
// shift using the offset in force on its own date.
func occurrence(zone *time.Location, date, startHHMM, endHHMM string) (time.Time, time.Time, error) {
	start, err := timezones.ZonedInstant(zone, date, startHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := timezones.ZonedInstant(zone, date, endHHMM)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		next, _ := time.Parse(timezones.DateLayout, date)
		end, err = timezones.ZonedInstant(zone, next.AddDate(0, 0, 1).Format(timezones.DateLayout), endHHMM)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start.UTC(), end.UTC(), nil
}

// HandleDelete handles DELETE /api/shifts/{id}. Only stored shifts can be deleted;
// template occurrences are changed through the template.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	id, err := schedule.ParseShiftRef(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, schedule.ErrVirtualShift):
		respond.Error(w, http.StatusConflict, "Conflict", "virtual shifts cannot be deleted")
		return
	case err != nil:
		respond.Error(w, http.StatusBadRequest, "Invalid request", "id must be a valid shift id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	n, err := h.Shifts.Delete(ctx, actor.OrgID, id)
	if err != nil {
		h.Log.Error("shifts: delete", zap.Error(err))
		internalError(w)
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "Not found", "Shift not found.")
		return
	}
	h.AuditLog.ShiftDeleted(ctx, ratelimit.ClientIP(r), actor.UserID, actor.OrgID, id)
	respond.JSON(w, http.StatusOK, deleteResponse{Deleted: n})
}

// HandleDeleteGroup handles DELETE /api/shifts/groups/{groupID}.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	groupID := chi.URLParam(r, "groupID")
	if _, err := uuid.Parse(groupID); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "groupID must be a valid recurrence group id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Bulk())
	defer cancel()

	n, err := h.Shifts.DeleteGroup(ctx, actor.OrgID, groupID)
	if err != nil {
		h.Log.Error("shifts: delete group", zap.Error(err))
		internalError(w)
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "Not found", "Recurrence group not found.")
		return
	}
	h.AuditLog.ShiftGroupDeleted(ctx, ratelimit.ClientIP(r), actor.UserID, actor.OrgID, groupID, n)
	respond.JSON(w, http.StatusOK, deleteResponse{Deleted: n})
}
