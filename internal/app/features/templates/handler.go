// internal/app/features/templates/handler.go
package templates

import (
	"context"
	"errors"
	"net/http"

	locationstore "github.com/dalemusser/timeclock/internal/app/store/locations"
	userstore "github.com/dalemusser/timeclock/internal/app/store/users"
	templatestore "github.com/dalemusser/timeclock/internal/app/store/weeklytemplates"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/app/system/authz"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users     *userstore.Store
	Locations *locationstore.Store
	Templates *templatestore.Store
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     userstore.New(db),
		Locations: locationstore.New(db),
		Templates: templatestore.New(db),
		AuditLog:  audit,
		Log:       logger,
	}
}

type slotInput struct {
	Enabled    bool   `json:"enabled"`
	Start      string `json:"start" validate:"required_if=Enabled true,omitempty,hhmm" label:"start"`
	End        string `json:"end" validate:"required_if=Enabled true,omitempty,hhmm" label:"end"`
	LocationID string `json:"locationId" validate:"required_if=Enabled true,omitempty,objectid" label:"locationId"`
}

type templateInput struct {
	Days map[string]slotInput `json:"days" validate:"dive,keys,weekday,endkeys" label:"days"`
}

// employee loads the {employeeID} user, limited to the actor's organization.
func (h *Handler) employee(ctx context.Context, w http.ResponseWriter, r *http.Request, actor authz.Actor) (*models.User, bool) {
	empID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "employeeID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "employeeID must be a valid id.")
		return nil, false
	}
	if _, err := authz.EmployeeScope(actor, empID.Hex()); err != nil {
		respond.Error(w, http.StatusForbidden, "Forbidden", "You can only view your own template.")
		return nil, false
	}

	u, err := h.Users.GetByID(ctx, empID)
	if err == nil && (u.OrganizationID == nil || *u.OrganizationID != actor.OrgID) {
		err = mongo.ErrNoDocuments
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "Not found", "Employee not found.")
		return nil, false
	}
	if err != nil {
		h.Log.Error("templates: load employee", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return nil, false
	}
	return u, true
}

// ServeTemplate handles GET /api/templates/{employeeID}. An employee without a
// template gets one with no days.
func (h *Handler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	emp, ok := h.employee(ctx, w, r, actor)
	if !ok {
		return
	}

	tpl, err := h.Templates.GetForEmployee(ctx, actor.OrgID, emp.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		tpl = models.WeeklyTemplate{
			OrganizationID: actor.OrgID,
			EmployeeID:     emp.ID,
			EmployeeName:   emp.FullName,
			Days:           map[string]models.ShiftSlot{},
		}
		err = nil
	}
	if err != nil {
		h.Log.Error("templates: load template", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	respond.JSON(w, http.StatusOK, tpl)
}

// HandleSave handles PUT /api/templates/{employeeID}. The body replaces the whole
// template; days left out are no longer scheduled.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var in templateInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, "Invalid request", res.All())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	emp, ok := h.employee(ctx, w, r, actor)
	if !ok {
		return
	}

	days := make(map[string]models.ShiftSlot, len(in.Days))
	enabled := 0
	for day, s := range in.Days {
		slot := models.ShiftSlot{Enabled: s.Enabled, Start: s.Start, End: s.End}
		if s.LocationID != "" {
			locID, _ := primitive.ObjectIDFromHex(s.LocationID)
			loc, err := h.Locations.GetInOrg(ctx, actor.OrgID, locID)
			switch {
			case err == nil:
				slot.LocationID = loc.ID
				slot.LocationName = loc.Name
			case errors.Is(err, mongo.ErrNoDocuments) && s.Enabled:
				respond.Error(w, http.StatusBadRequest, "Invalid request", "Unknown location for "+day+".")
				return
			case errors.Is(err, mongo.ErrNoDocuments):
				// a disabled day may point at a removed location
			default:
				h.Log.Error("templates: load location", zap.Error(err))
				respond.Error(w, http.StatusInternalServerError, "Internal error", "")
				return
			}
		}
		if s.Enabled {
			enabled++
			if a, b := minutes(s.Start), minutes(s.End); a >= b {
				h.Log.Info("template slot ends at or before it starts",
					zap.String("employee_id", emp.ID.Hex()),
					zap.String("day", day),
					zap.String("start", s.Start),
					zap.String("end", s.End))
			}
		}
		days[day] = slot
	}

	saved, err := h.Templates.Save(ctx, models.WeeklyTemplate{
		OrganizationID: actor.OrgID,
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		Days:           days,
	})
	if err != nil {
		h.Log.Error("templates: save", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	h.AuditLog.TemplateSaved(ctx, ratelimit.ClientIP(r), actor.UserID, emp.ID, actor.OrgID, enabled)
	respond.JSON(w, http.StatusOK, saved)
}

func minutes(hhmm string) int {
	m, _ := timezones.ParseHHMM(hhmm)
	return m
}
