package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateOrganization creates a test organization in the given display time zone.
func (f *Fixtures) CreateOrganization(ctx context.Context, name, tz string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		TimeZone:  tz,
		JoinCode:  "TEST" + primitive.NewObjectID().Hex()[18:],
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "organizations", org)
	return org
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Email:          email,
		AuthMethod:     models.AuthTrust,
		Role:           role,
		Status:         "active",
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates an admin in the organization.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin, &orgID)
}

// CreateEmployee creates an employee in the organization.
func (f *Fixtures) CreateEmployee(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleEmployee, &orgID)
}

// CreateLocation creates a location with a 100 m geofence at lat/lng.
func (f *Fixtures) CreateLocation(ctx context.Context, name string, orgID primitive.ObjectID, lat, lng float64) models.Location {
	f.t.Helper()

	now := time.Now().UTC()
	loc := models.Location{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		Coordinates:    models.LatLng(lat, lng),
		RadiusMeters:   models.DefaultGeofenceRadius,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "locations", loc)
	return loc
}

// CreateShift creates a scheduled one-off shift.
func (f *Fixtures) CreateShift(ctx context.Context, emp models.User, loc models.Location, start, end time.Time) models.Shift {
	f.t.Helper()

	sh := models.Shift{
		ID:             primitive.NewObjectID(),
		OrganizationID: loc.OrganizationID,
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		LocationID:     loc.ID,
		LocationName:   loc.Name,
		Start:          start.UTC(),
		End:            end.UTC(),
		Status:         models.ShiftScheduled,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "shifts", sh)
	return sh
}

// CreateTemplate stores a weekly template with the same slot on each given weekday.
func (f *Fixtures) CreateTemplate(ctx context.Context, emp models.User, loc models.Location, start, end string, weekdays ...string) models.WeeklyTemplate {
	f.t.Helper()

	days := make(map[string]models.ShiftSlot, len(weekdays))
	for _, d := range weekdays {
		days[d] = models.ShiftSlot{Enabled: true, Start: start, End: end, LocationID: loc.ID, LocationName: loc.Name}
	}
	tpl := models.WeeklyTemplate{
		ID:             primitive.NewObjectID(),
		OrganizationID: loc.OrganizationID,
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		Days:           days,
		UpdatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "weekly_templates", tpl)
	return tpl
}
