// internal/app/features/timeentries/handler.go
package timeentries

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/dalemusser/timeclock/internal/app/system/authz"
	"github.com/dalemusser/timeclock/internal/app/system/orgutil"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxDays bounds one listing.
const MaxDays = 62

// Entries is the slice of the time entry store the reads need.
type Entries interface {
	FindOpen(ctx context.Context, orgID, employeeID primitive.ObjectID) (models.TimeEntry, error)
	ListInRange(ctx context.Context, orgID primitive.ObjectID, employeeID *primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error)
}

type Handler struct {
	Orgs    orgutil.OrgGetter
	Entries Entries
	Log     *zap.Logger
	Now     func() time.Time
}

func NewHandler(orgs orgutil.OrgGetter, entries Entries, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:    orgs,
		Entries: entries,
		Log:     logger,
		Now:     time.Now,
	}
}

// entryView is a time entry with its worked minutes. Open entries count up to now.
type entryView struct {
	models.TimeEntry
	DurationMinutes int64 `json:"duration_minutes"`
}

func (h *Handler) view(e models.TimeEntry) entryView {
	mins := int64(math.Floor(e.Duration(h.Now()).Minutes()))
	return entryView{TimeEntry: e, DurationMinutes: mins}
}

type openResponse struct {
	Entry *entryView `json:"entry"`
}

type listResponse struct {
	TimeZone     string      `json:"timeZone"`
	Entries      []entryView `json:"entries"`
	TotalMinutes int64       `json:"total_minutes"`
}

// ServeOpen handles GET /api/time-entries/open: the caller's open entry, or null.
func (h *Handler) ServeOpen(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	if actor.OrgID.IsZero() {
		respond.Error(w, http.StatusForbidden, "No organization", "Your account is not part of an organization.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()

	e, err := h.Entries.FindOpen(ctx, actor.OrgID, actor.UserID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.JSON(w, http.StatusOK, openResponse{})
		return
	}
	if err != nil {
		h.Log.Error("time-entries: find open", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	v := h.view(e)
	respond.JSON(w, http.StatusOK, openResponse{Entry: &v})
}

// ServeList handles GET /api/time-entries?start=YYYY-MM-DD&end=YYYY-MM-DD[&employee_id=].
// Entries are selected by clock-in day in the organization's zone.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	employeeID, err := authz.EmployeeScope(actor, r.URL.Query().Get("employee_id"))
	switch {
	case errors.Is(err, authz.ErrNoOrganization):
		respond.Error(w, http.StatusForbidden, "No organization", "Your account is not part of an organization.")
		return
	case errors.Is(err, authz.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "Forbidden", "You can only view your own time entries.")
		return
	case err != nil:
		respond.Error(w, http.StatusBadRequest, "Invalid request", "employee_id must be a valid id.")
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
		h.Log.Error("time-entries: load organization", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	start, end, err := orgutil.DateRange(loc, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "start and end must be dates in YYYY-MM-DD format.")
		return
	}
	if end.Before(start) || orgutil.Days(loc, start, end) > MaxDays {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "The range must run forwards and cover at most 62 days.")
		return
	}

	entries, err := h.Entries.ListInRange(ctx, actor.OrgID, employeeID, start, end)
	if err != nil {
		h.Log.Error("time-entries: list", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	resp := listResponse{TimeZone: loc.String(), Entries: make([]entryView, 0, len(entries))}
	for _, e := range entries {
		v := h.view(e)
		resp.TotalMinutes += v.DurationMinutes
		resp.Entries = append(resp.Entries, v)
	}
	respond.JSON(w, http.StatusOK, resp)
}
