package timeentrystore_test

import (
	"errors"
	"testing"
	"time"

	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/timeclock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newEntry(orgID, empID primitive.ObjectID, at time.Time) models.TimeEntry {
	return models.TimeEntry{
		OrganizationID: orgID,
		EmployeeID:     empID,
		EmployeeName:   "Test Employee",
		LocationID:     primitive.NewObjectID(),
		LocationName:   "Main St",
		ClockInAt:      at,
		ClockInIP:      "203.0.113.7",
	}
}

func TestStore_OpenOnePerEmployee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	orgID := primitive.NewObjectID()
	emp := primitive.NewObjectID()
	at := time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC)

	opened, err := store.Open(ctx, newEntry(orgID, emp, at))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !opened.Open || opened.ClockOutAt != nil {
		t.Errorf("opened entry: Open = %v, ClockOutAt = %v", opened.Open, opened.ClockOutAt)
	}
	if opened.VerificationFlags == nil {
		t.Error("expected an empty, non-nil flag list")
	}

	if _, err := store.Open(ctx, newEntry(orgID, emp, at.Add(time.Minute))); err != timeentrystore.ErrOpenEntryExists {
		t.Errorf("second Open = %v, want ErrOpenEntryExists", err)
	}

	// Another employee is unaffected.
	if _, err := store.Open(ctx, newEntry(orgID, primitive.NewObjectID(), at)); err != nil {
		t.Errorf("Open(other employee) failed: %v", err)
	}

	found, err := store.FindOpen(ctx, orgID, emp)
	if err != nil {
		t.Fatalf("FindOpen failed: %v", err)
	}
	if found.ID != opened.ID {
		t.Errorf("FindOpen = %s, want %s", found.ID.Hex(), opened.ID.Hex())
	}
}

func TestStore_Close(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	orgID := primitive.NewObjectID()
	emp := primitive.NewObjectID()
	at := time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC)
	opened, err := store.Open(ctx, newEntry(orgID, emp, at))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out := at.Add(8*time.Hour + 30*time.Minute)
	closed, err := store.Close(ctx, opened.ID, timeentrystore.Closing{
		At:     out,
		Coords: models.LatLng(40.7, -74.0),
		IP:     "203.0.113.8",
		Reason: "end of shift",
		Flags: []models.VerificationFlag{{
			Type:      models.FlagOutsideGeofence,
			Message:   "Clock-out 420m from Main St",
			Timestamp: out,
		}},
	})
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed.Open {
		t.Error("closed entry still open")
	}
	if closed.ClockOutAt == nil || !closed.ClockOutAt.Equal(out) {
		t.Errorf("ClockOutAt = %v, want %v", closed.ClockOutAt, out)
	}
	if closed.ClockOutReason != "end of shift" || closed.ClockOutIP != "203.0.113.8" {
		t.Errorf("reason/ip = %q/%q", closed.ClockOutReason, closed.ClockOutIP)
	}
	if len(closed.VerificationFlags) != 1 || closed.VerificationFlags[0].Type != models.FlagOutsideGeofence {
		t.Errorf("VerificationFlags = %+v", closed.VerificationFlags)
	}
	if got := closed.Duration(time.Now()); got != 8*time.Hour+30*time.Minute {
		t.Errorf("Duration = %v, want 8h30m", got)
	}

	// A second close of the same entry matches nothing.
	if _, err := store.Close(ctx, opened.ID, timeentrystore.Closing{At: out}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Close = %v, want mongo.ErrNoDocuments", err)
	}
	if _, err := store.FindOpen(ctx, orgID, emp); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("FindOpen after close = %v, want mongo.ErrNoDocuments", err)
	}

	// The employee can clock in again.
	if _, err := store.Open(ctx, newEntry(orgID, emp, out.Add(time.Hour))); err != nil {
		t.Errorf("Open after close failed: %v", err)
	}
}

func TestStore_ListInRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := timeentrystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	day := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	for _, e := range []models.TimeEntry{
		newEntry(orgID, alice, day.Add(13*time.Hour)),
		newEntry(orgID, bob, day.Add(9*time.Hour)),
		newEntry(orgID, alice, day.Add(-2*time.Hour)),
		newEntry(primitive.NewObjectID(), alice, day.Add(10*time.Hour)),
	} {
		e.Open = false
		if _, err := db.Collection("time_entries").InsertOne(ctx, withID(e)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	end := day.Add(24*time.Hour - time.Nanosecond)
	all, err := store.ListInRange(ctx, orgID, nil, day, end)
	if err != nil {
		t.Fatalf("ListInRange failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListInRange returned %d entries, want 2", len(all))
	}
	if all[0].EmployeeID != bob || all[1].EmployeeID != alice {
		t.Error("entries not ordered by clock-in")
	}

	mine, err := store.ListInRange(ctx, orgID, &alice, day, end)
	if err != nil {
		t.Fatalf("ListInRange(alice) failed: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("ListInRange(alice) returned %d entries, want 1", len(mine))
	}

	got, err := store.GetByID(ctx, mine[0].ID)
	if err != nil || got.ID != mine[0].ID {
		t.Errorf("GetByID = %v, %v", got.ID, err)
	}
}

func withID(e models.TimeEntry) models.TimeEntry {
	e.ID = primitive.NewObjectID()
	e.VerificationFlags = []models.VerificationFlag{}
	return e
}
