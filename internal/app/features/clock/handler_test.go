package clock_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/timeclock/internal/app/attendance"
	"github.com/dalemusser/timeclock/internal/app/features/clock"
	"github.com/dalemusser/timeclock/internal/app/schedule"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/timeclock/internal/testutil"
	"github.com/dalemusser/timeclock/internal/testutil/memstore"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type env struct {
	handler *clock.Handler
	users   *memstore.Users
	entries *memstore.TimeEntries
	user    testutil.TestUser
	loc     models.Location
}

// newEnv builds a New York organization whose employee is on shift 09:00-17:00 on
// Monday 2024-07-15, with the clock fixed at 10:00 that morning.
func newEnv(t *testing.T) *env {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	now := time.Date(2024, 7, 15, 10, 0, 0, 0, ny)

	orgID := primitive.NewObjectID()
	loc := models.Location{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           "Main St",
		Coordinates:    models.LatLng(40.7128, -74.0060),
		RadiusMeters:   100,
	}
	user := models.User{ID: primitive.NewObjectID(), FullName: "Ada Lovelace", Role: models.RoleEmployee, OrganizationID: &orgID}

	users := memstore.NewUsers(user)
	locations := memstore.NewLocations(loc)
	entries := memstore.NewTimeEntries()
	templates := memstore.NewTemplates(models.WeeklyTemplate{
		OrganizationID: orgID,
		EmployeeID:     user.ID,
		EmployeeName:   user.FullName,
		Days: map[string]models.ShiftSlot{
			"monday": {Enabled: true, Start: "09:00", End: "17:00", LocationID: loc.ID, LocationName: loc.Name},
		},
	})

	opts := attendance.Options{Now: func() time.Time { return now }}
	sessions := attendance.NewSessions(entries, users, locations, opts)
	gate := attendance.NewGate(users,
		memstore.NewOrganizations(models.Organization{ID: orgID, Name: "Acme", TimeZone: "America/New_York"}),
		locations,
		schedule.NewResolver(memstore.NewShifts(), templates, nil),
		sessions, opts)

	return &env{
		handler: clock.NewHandler(gate, sessions, false, zap.NewNop()),
		users:   users,
		entries: entries,
		user:    testutil.UserFor(user.ID, models.RoleEmployee, orgID),
		loc:     loc,
	}
}

func (e *env) clockInBody(lat, lng float64) map[string]any {
	return map[string]any{
		"locationId":  e.loc.ID.Hex(),
		"coordinates": map[string]float64{"latitude": lat, "longitude": lng},
	}
}

type clockResult struct {
	Success bool              `json:"success"`
	Entry   *models.TimeEntry `json:"entry"`
}

func TestHandleClockIn_Success(t *testing.T) {
	e := newEnv(t)

	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/clock-in", e.clockInBody(40.7130, -74.0060)), e.user)
	rec := testutil.NewRecorder()
	e.handler.HandleClockIn(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var got clockResult
	rec.DecodeJSON(t, &got)
	if !got.Success || got.Entry == nil {
		t.Fatalf("response = %+v, want success with entry", got)
	}
	if !got.Entry.Open || got.Entry.LocationName != "Main St" {
		t.Errorf("entry = %+v", got.Entry)
	}
	if n := len(e.entries.All()); n != 1 {
		t.Errorf("stored entries = %d, want 1", n)
	}
}

func TestHandleClockIn_Unauthenticated(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewJSONRequest(http.MethodPost, "/api/clock-in", e.clockInBody(40.7130, -74.0060))
	rec := testutil.NewRecorder()
	e.handler.HandleClockIn(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
	var body respond.ErrorBody
	rec.DecodeJSON(t, &body)
	if body.Error != "Unauthorized" {
		t.Errorf("error = %q, want Unauthorized", body.Error)
	}
}

func TestHandleClockIn_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       func(e *env) any
		wantStatus int
		wantError  string
		wantDetail string
	}{
		{
			name:       "outside geofence",
			body:       func(e *env) any { return e.clockInBody(40.7146, -74.0060) },
			wantStatus: http.StatusForbidden,
			wantError:  "Location verification failed",
			wantDetail: "meters from Main St",
		},
		{
			name:       "missing coordinates",
			body:       func(e *env) any { return map[string]any{"locationId": e.loc.ID.Hex()} },
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
			wantDetail: "coordinates are required.",
		},
		{
			name:       "missing location",
			body:       func(e *env) any { return map[string]any{"coordinates": map[string]float64{"latitude": 1, "longitude": 1}} },
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
			wantDetail: "locationId is required.",
		},
		{
			name:       "malformed location id",
			body:       func(e *env) any { return map[string]any{"locationId": "nope"} },
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
			wantDetail: "locationId must be a valid id.",
		},
		{
			name:       "unknown location",
			body:       func(e *env) any { return map[string]any{"locationId": primitive.NewObjectID().Hex(), "coordinates": map[string]float64{"latitude": 1, "longitude": 1}} },
			wantStatus: http.StatusNotFound,
			wantError:  "Not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/clock-in", tt.body(e)), e.user)
			rec := testutil.NewRecorder()
			e.handler.HandleClockIn(rec, req)

			rec.AssertStatus(t, tt.wantStatus)
			var body respond.ErrorBody
			rec.DecodeJSON(t, &body)
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if !strings.Contains(body.Details, tt.wantDetail) {
				t.Errorf("details = %q, want to contain %q", body.Details, tt.wantDetail)
			}
			if n := len(e.entries.All()); n != 0 {
				t.Errorf("stored entries = %d, want 0", n)
			}
		})
	}
}

func TestHandleClockIn_SecondAttempt(t *testing.T) {
	e := newEnv(t)

	for i, want := range []int{http.StatusOK, http.StatusBadRequest} {
		req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/clock-in", e.clockInBody(40.7130, -74.0060)), e.user)
		rec := testutil.NewRecorder()
		e.handler.HandleClockIn(rec, req)
		if rec.Code != want {
			t.Fatalf("attempt %d: status %d, want %d (%s)", i+1, rec.Code, want, rec.Body.String())
		}
		if i == 1 {
			rec.AssertContains(t, "Already clocked in")
		}
	}
}

func TestHandleClockIn_MalformedJSON(t *testing.T) {
	e := newEnv(t)

	req := testutil.WithUser(testutil.NewRequest(http.MethodPost, "/api/clock-in"), e.user)
	req.Body = http.NoBody
	rec := testutil.NewRecorder()
	e.handler.HandleClockIn(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleClockIn_InternalDetailsHidden(t *testing.T) {
	tests := []struct {
		name         string
		showInternal bool
		wantDetails  bool
	}{
		{"prod", false, false},
		{"dev", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.handler.ShowInternal = tt.showInternal
			e.users.Err = errors.New("connection reset")

			req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/clock-in", e.clockInBody(40.7130, -74.0060)), e.user)
			rec := testutil.NewRecorder()
			e.handler.HandleClockIn(rec, req)

			rec.AssertStatus(t, http.StatusInternalServerError)
			var body respond.ErrorBody
			rec.DecodeJSON(t, &body)
			if got := strings.Contains(body.Details, "connection reset"); got != tt.wantDetails {
				t.Errorf("details = %q, want cause shown = %v", body.Details, tt.wantDetails)
			}
		})
	}
}

func TestHandleClockOut(t *testing.T) {
	e := newEnv(t)

	// nothing open yet
	req := testutil.WithUser(testutil.NewRequest(http.MethodPost, "/api/clock-out"), e.user)
	rec := testutil.NewRecorder()
	e.handler.HandleClockOut(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "No active clock-in")

	req = testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/clock-in", e.clockInBody(40.7130, -74.0060)), e.user)
	rec = testutil.NewRecorder()
	e.handler.HandleClockIn(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	// far away and with markup in the reason: still closes
	body := map[string]any{
		"coordinates": map[string]float64{"latitude": 40.80, "longitude": -74.0060},
		"reason":      "<b>done</b> for today",
	}
	req = testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/clock-out", body), e.user)
	rec = testutil.NewRecorder()
	e.handler.HandleClockOut(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got clockResult
	rec.DecodeJSON(t, &got)
	if got.Entry == nil || got.Entry.Open {
		t.Fatalf("entry = %+v, want closed", got.Entry)
	}
	if got.Entry.ClockOutReason != "done for today" {
		t.Errorf("reason = %q", got.Entry.ClockOutReason)
	}
	if len(got.Entry.VerificationFlags) != 1 || got.Entry.VerificationFlags[0].Type != models.FlagOutsideGeofence {
		t.Errorf("flags = %+v, want one %s", got.Entry.VerificationFlags, models.FlagOutsideGeofence)
	}
}

func TestMountRoutes_RateLimited(t *testing.T) {
	e := newEnv(t)
	r := chi.NewRouter()
	clock.MountRoutes(r, e.handler, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := testutil.WithUser(testutil.NewRequest(http.MethodPost, "/api/clock-out"), e.user)
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusBadRequest || codes[1] != http.StatusBadRequest || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [400 400 429]", codes)
	}
}
