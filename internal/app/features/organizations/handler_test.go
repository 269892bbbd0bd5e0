package organizations_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/timeclock/internal/app/features/organizations"
	"github.com/dalemusser/timeclock/internal/app/store/audit"
	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/timeclock/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *organizations.Handler {
	logger := zap.NewNop()
	return organizations.NewHandler(db, auditlog.New(audit.New(db), logger, auditlog.Config{Admin: auditlog.DB}), logger)
}

type orgResult struct {
	TimeZone  string `json:"timeZone"`
	Zone      string `json:"zone"`
	ZoneLabel string `json:"zoneLabel"`
	JoinCode  string `json:"joinCode"`
}

func TestServeOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme", "Eastern Time")
	h := newHandler(db)

	rec := testutil.NewRecorder()
	h.ServeOrganization(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/organization", testutil.AdminUser(org.ID)))
	rec.AssertStatus(t, http.StatusOK)
	var got orgResult
	rec.DecodeJSON(t, &got)
	if got.TimeZone != "Eastern Time" || got.Zone != "America/New_York" || got.ZoneLabel != "Eastern Time (US & Canada)" {
		t.Errorf("org = %+v", got)
	}
	if got.JoinCode != org.JoinCode {
		t.Errorf("admin joinCode = %q, want %q", got.JoinCode, org.JoinCode)
	}

	rec = testutil.NewRecorder()
	h.ServeOrganization(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/organization", testutil.EmployeeUser(org.ID)))
	rec.AssertStatus(t, http.StatusOK)
	got = orgResult{}
	rec.DecodeJSON(t, &got)
	if got.JoinCode != "" {
		t.Errorf("employee sees joinCode %q", got.JoinCode)
	}
}

func TestHandleSetTimeZone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme", "Eastern Time")
	admin := testutil.AdminUser(org.ID)
	h := newHandler(db)

	tests := []struct {
		name string
		tz   string
		want int
	}{
		{"label", "Pacific Time (US & Canada)", http.StatusOK},
		{"iana id", "Europe/Berlin", http.StatusOK},
		{"unknown", "Mars Standard Time", http.StatusBadRequest},
		{"empty", "  ", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, "/api/organization/time-zone", map[string]string{"timeZone": tt.tz}), admin)
			rec := testutil.NewRecorder()
			h.HandleSetTimeZone(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}

	stored, err := organizationstore.New(db).GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.TimeZone != "Europe/Berlin" {
		t.Errorf("stored time zone = %q, want Europe/Berlin", stored.TimeZone)
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: audit.EventOrgTimeZoneUpdated})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d time zone events, want 2", len(events))
	}
	found := false
	for _, ev := range events {
		if ev.Details["from"] == "Pacific Time (US & Canada)" && ev.Details["to"] == "Europe/Berlin" {
			found = true
		}
	}
	if !found {
		t.Errorf("no Pacific -> Berlin event in %+v", events)
	}
}

func TestLocations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme", "UTC")
	admin := testutil.AdminUser(org.ID)
	h := newHandler(db)

	body := map[string]any{
		"name":            "<b>Main</b> St",
		"latitude":        40.7128,
		"longitude":       -74.0060,
		"allowedNetworks": []string{"10.0.0.0/8", "203.0.113.7"},
		"operatingHours": map[string]any{
			"monday": map[string]any{"isOpen": true, "open": "08:00", "close": "18:00"},
			"sunday": map[string]any{"isOpen": false},
		},
	}
	rec := testutil.NewRecorder()
	h.HandleCreateLocation(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/organization/locations", body), admin))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"name":"Main St"`)
	rec.AssertContains(t, `"radiusMeters":100`)

	bad := []map[string]any{
		{"name": "No coords"},
		{"name": "Far", "latitude": 95.0, "longitude": 0.0},
		{"name": "Net", "latitude": 1.0, "longitude": 1.0, "allowedNetworks": []string{"office"}},
		{"name": "Day", "latitude": 1.0, "longitude": 1.0, "operatingHours": map[string]any{"Mon": map[string]any{"isOpen": false}}},
		{"name": "Hours", "latitude": 1.0, "longitude": 1.0, "operatingHours": map[string]any{"monday": map[string]any{"isOpen": true}}},
		{"name": "Radius", "latitude": 1.0, "longitude": 1.0, "radiusMeters": -5},
	}
	for _, b := range bad {
		rec := testutil.NewRecorder()
		h.HandleCreateLocation(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/organization/locations", b), admin))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%v: status %d, want 400", b["name"], rec.Code)
		}
	}

	rec = testutil.NewRecorder()
	h.ServeLocations(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/organization/locations", testutil.EmployeeUser(org.ID)))
	rec.AssertStatus(t, http.StatusOK)
	var got struct {
		Locations []struct {
			Name           string                     `json:"name"`
			OperatingHours map[string]models.DayHours `json:"operatingHours"`
		} `json:"locations"`
	}
	rec.DecodeJSON(t, &got)
	if len(got.Locations) != 1 {
		t.Fatalf("got %d locations, want 1", len(got.Locations))
	}
	if hrs := got.Locations[0].OperatingHours["monday"]; !hrs.IsOpen || hrs.Open != "08:00" || hrs.Close != "18:00" {
		t.Errorf("monday hours = %+v", hrs)
	}
}
