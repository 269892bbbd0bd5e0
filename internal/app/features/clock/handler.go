// internal/app/features/clock/handler.go
package clock

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/timeclock/internal/app/attendance"
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Gate     *attendance.Gate
	Sessions *attendance.Sessions
	Log      *zap.Logger

	// ShowInternal exposes the cause of Internal failures in responses (dev only).
	ShowInternal bool
}

func NewHandler(gate *attendance.Gate, sessions *attendance.Sessions, showInternal bool, logger *zap.Logger) *Handler {
	return &Handler{
		Gate:         gate,
		Sessions:     sessions,
		Log:          logger,
		ShowInternal: showInternal,
	}
}

type clockInInput struct {
	LocationID  string              `json:"locationId" validate:"omitempty,objectid" label:"locationId"`
	Coordinates *models.Coordinates `json:"coordinates"`
}

type clockOutInput struct {
	Coordinates *models.Coordinates `json:"coordinates"`
	Reason      string              `json:"reason" validate:"max=2000" label:"reason"`
}

type clockResponse struct {
	Success bool              `json:"success"`
	Entry   *models.TimeEntry `json:"entry,omitempty"`
}

// employeeID is the signed-in user's id, or the zero id when there is none; the
// gate turns the zero id into Unauthorized.
func employeeID(r *http.Request) primitive.ObjectID {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID
	}
	id, _ := u.UserID()
	return id
}

// HandleClockIn handles POST /api/clock-in.
//
// Body:
//
//	{ "locationId": "…", "coordinates": { "latitude": 40.71, "longitude": -74.00 } }
//
// On success: 200 and { "success": true, "entry": {…} }.
// On failure: the status of the failure kind and { "error": "…", "details": "…" }.
func (h *Handler) HandleClockIn(w http.ResponseWriter, r *http.Request) {
	var in clockInInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, attendance.InvalidInput.Title(), "Request body must be valid JSON.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, attendance.InvalidInput.Title(), res.All())
		return
	}

	var locationID primitive.ObjectID
	if in.LocationID != "" {
		locationID, _ = primitive.ObjectIDFromHex(in.LocationID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Clock())
	defer cancel()

	entry, err := h.Gate.ClockIn(ctx, attendance.ClockInRequest{
		EmployeeID:  employeeID(r),
		LocationID:  locationID,
		Coordinates: in.Coordinates,
		IP:          ratelimit.ClientIP(r),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, clockResponse{Success: true, Entry: &entry})
}

// HandleClockOut handles POST /api/clock-out.
//
// Body (all optional):
//
//	{ "coordinates": { "latitude": …, "longitude": … }, "reason": "…" }
func (h *Handler) HandleClockOut(w http.ResponseWriter, r *http.Request) {
	var in clockOutInput
	if r.ContentLength != 0 {
		if err := respond.Decode(w, r, &in); err != nil {
			respond.Error(w, http.StatusBadRequest, attendance.InvalidInput.Title(), "Request body must be valid JSON.")
			return
		}
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, attendance.InvalidInput.Title(), res.All())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Clock())
	defer cancel()

	entry, err := h.Sessions.ClockOut(ctx, attendance.ClockOutRequest{
		EmployeeID:  employeeID(r),
		Coordinates: in.Coordinates,
		IP:          ratelimit.ClientIP(r),
		Reason:      in.Reason,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, clockResponse{Success: true, Entry: &entry})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ae *attendance.Error
	if !errors.As(err, &ae) {
		ae = &attendance.Error{Kind: attendance.Internal, Err: err}
	}
	details := ae.Details
	if ae.Kind == attendance.Internal {
		details = ""
		if h.ShowInternal {
			details = ae.Error()
		}
	}
	respond.Error(w, ae.Kind.HTTPStatus(), ae.Kind.Title(), details)
}
