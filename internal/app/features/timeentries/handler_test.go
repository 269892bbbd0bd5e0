package timeentries_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/timeclock/internal/app/features/timeentries"
	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/timeclock/internal/testutil"
	"github.com/dalemusser/timeclock/internal/testutil/memstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var now = time.Date(2024, 7, 17, 16, 0, 0, 0, time.UTC) // 12:00 in New York

type env struct {
	handler *timeentries.Handler
	entries *memstore.TimeEntries
	orgID   primitive.ObjectID
	ada     primitive.ObjectID
	bob     primitive.ObjectID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		entries: memstore.NewTimeEntries(),
		orgID:   primitive.NewObjectID(),
		ada:     primitive.NewObjectID(),
		bob:     primitive.NewObjectID(),
	}
	orgs := memstore.NewOrganizations(models.Organization{ID: e.orgID, Name: "Acme", TimeZone: "America/New_York"})
	e.handler = timeentries.NewHandler(orgs, e.entries, zap.NewNop())
	e.handler.Now = func() time.Time { return now }
	return e
}

// worked opens an entry for emp at in and, when out is non-zero, closes it.
func (e *env) worked(t *testing.T, emp primitive.ObjectID, in, out time.Time) models.TimeEntry {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	entry, err := e.entries.Open(ctx, models.TimeEntry{OrganizationID: e.orgID, EmployeeID: emp, ClockInAt: in})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if out.IsZero() {
		return entry
	}
	entry, err = e.entries.Close(ctx, entry.ID, timeentrystore.Closing{At: out})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	return entry
}

type listResult struct {
	TimeZone string `json:"timeZone"`
	Entries  []struct {
		ID              string `json:"id"`
		EmployeeID      string `json:"employee_id"`
		Open            bool   `json:"open"`
		DurationMinutes int64  `json:"duration_minutes"`
	} `json:"entries"`
	TotalMinutes int64 `json:"total_minutes"`
}

func TestServeList_AdminSeesOrganization(t *testing.T) {
	e := newEnv(t)
	e.worked(t, e.ada, time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC), time.Date(2024, 7, 15, 21, 30, 0, 0, time.UTC))
	e.worked(t, e.bob, time.Date(2024, 7, 16, 13, 0, 0, 0, time.UTC), time.Date(2024, 7, 16, 14, 0, 59, 0, time.UTC))
	e.worked(t, e.ada, time.Date(2024, 7, 17, 13, 0, 0, 0, time.UTC), time.Time{})
	// 2024-07-14 23:30 in New York: before the range even though it is the 15th in UTC.
	e.worked(t, e.bob, time.Date(2024, 7, 15, 3, 30, 0, 0, time.UTC), time.Date(2024, 7, 15, 4, 0, 0, 0, time.UTC))

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/time-entries?start=2024-07-15&end=2024-07-17", testutil.AdminUser(e.orgID))
	rec := testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got listResult
	rec.DecodeJSON(t, &got)
	if got.TimeZone != "America/New_York" {
		t.Errorf("timeZone = %q", got.TimeZone)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(got.Entries))
	}
	wantMinutes := []int64{510, 60, 180}
	for i, want := range wantMinutes {
		if got.Entries[i].DurationMinutes != want {
			t.Errorf("entry %d duration = %d, want %d", i, got.Entries[i].DurationMinutes, want)
		}
	}
	if !got.Entries[2].Open {
		t.Error("last entry should still be open")
	}
	if got.TotalMinutes != 750 {
		t.Errorf("total_minutes = %d, want 750", got.TotalMinutes)
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/api/time-entries?start=2024-07-15&end=2024-07-17&employee_id="+e.bob.Hex(), testutil.AdminUser(e.orgID))
	rec = testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	got = listResult{}
	rec.DecodeJSON(t, &got)
	if len(got.Entries) != 1 || got.Entries[0].EmployeeID != e.bob.Hex() {
		t.Errorf("employee filter returned %+v", got.Entries)
	}
}

func TestServeList_EmployeeSeesOwnEntries(t *testing.T) {
	e := newEnv(t)
	e.worked(t, e.ada, time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC), time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC))
	e.worked(t, e.bob, time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC), time.Date(2024, 7, 15, 14, 0, 0, 0, time.UTC))

	ada := testutil.UserFor(e.ada, models.RoleEmployee, e.orgID)
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/time-entries?start=2024-07-15&end=2024-07-15", ada)
	rec := testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got listResult
	rec.DecodeJSON(t, &got)
	if len(got.Entries) != 1 || got.Entries[0].EmployeeID != e.ada.Hex() {
		t.Errorf("employee saw %+v", got.Entries)
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/api/time-entries?start=2024-07-15&end=2024-07-15&employee_id="+e.bob.Hex(), ada)
	rec = testutil.NewRecorder()
	e.handler.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeList_Errors(t *testing.T) {
	e := newEnv(t)
	admin := testutil.AdminUser(e.orgID)

	tests := []struct {
		name   string
		target string
		user   *testutil.TestUser
		want   int
	}{
		{"signed out", "/api/time-entries?start=2024-07-15&end=2024-07-15", nil, http.StatusUnauthorized},
		{"missing dates", "/api/time-entries", &admin, http.StatusBadRequest},
		{"bad date", "/api/time-entries?start=07/15/2024&end=2024-07-15", &admin, http.StatusBadRequest},
		{"backwards", "/api/time-entries?start=2024-07-16&end=2024-07-15", &admin, http.StatusBadRequest},
		{"too long", "/api/time-entries?start=2024-01-01&end=2024-07-15", &admin, http.StatusBadRequest},
		{"bad employee", "/api/time-entries?start=2024-07-15&end=2024-07-15&employee_id=nope", &admin, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(http.MethodGet, tt.target)
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			rec := testutil.NewRecorder()
			e.handler.ServeList(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}
}

func TestServeOpen(t *testing.T) {
	e := newEnv(t)
	ada := testutil.UserFor(e.ada, models.RoleEmployee, e.orgID)

	rec := testutil.NewRecorder()
	e.handler.ServeOpen(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/time-entries/open", ada))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"entry":null`)

	open := e.worked(t, e.ada, now.Add(-90*time.Minute), time.Time{})

	rec = testutil.NewRecorder()
	e.handler.ServeOpen(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/time-entries/open", ada))
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Entry *struct {
			ID              string `json:"id"`
			DurationMinutes int64  `json:"duration_minutes"`
		} `json:"entry"`
	}
	rec.DecodeJSON(t, &got)
	if got.Entry == nil {
		t.Fatal("entry is null")
	}
	if got.Entry.ID != open.ID.Hex() || got.Entry.DurationMinutes != 90 {
		t.Errorf("entry = %+v, want id %s and 90 minutes", got.Entry, open.ID.Hex())
	}

	rec = testutil.NewRecorder()
	e.handler.ServeOpen(rec, testutil.NewRequest(http.MethodGet, "/api/time-entries/open"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
