package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/timeclock/internal/app/store/audit"
	"github.com/dalemusser/timeclock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	event := audit.Event{
		Category:  audit.CategoryAttendance,
		EventType: audit.EventClockIn,
		UserID:    &userID,
		IP:        "192.168.1.1",
		Success:   true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if got.EventType != audit.EventClockIn || got.IP != "192.168.1.1" || !got.Success {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestStore_Log_WithDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		OrganizationID: &orgID,
		Category:       audit.CategoryAttendance,
		EventType:      audit.EventClockInRejected,
		FailureReason:  "too early, starting at 08:45",
		Details:        map[string]string{"kind": "outside_shift_hours"},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["kind"] != "outside_shift_hours" {
		t.Errorf("details = %v", events[0].Details)
	}
	if events[0].FailureReason != "too early, starting at 08:45" {
		t.Errorf("failure reason = %q", events[0].FailureReason)
	}
}

func TestStore_Query_FiltersAndOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	base := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
	for i, et := range []string{audit.EventClockIn, audit.EventClockOut, audit.EventShiftCreated} {
		cat := audit.CategoryAttendance
		if et == audit.EventShiftCreated {
			cat = audit.CategoryAdmin
		}
		if err := store.Log(ctx, audit.Event{
			OrganizationID: &orgID,
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
			Category:       cat,
			EventType:      et,
			Success:        true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	all, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].EventType != audit.EventShiftCreated {
		t.Errorf("expected newest first, got %s", all[0].EventType)
	}

	attendance, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID, Category: audit.CategoryAttendance})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(attendance) != 2 {
		t.Errorf("expected 2 attendance events, got %d", len(attendance))
	}

	start := base.Add(30 * time.Minute)
	windowed, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID, StartTime: &start, Limit: 1})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(windowed) != 1 || windowed[0].EventType != audit.EventShiftCreated {
		t.Errorf("windowed query = %+v", windowed)
	}

	page2, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page2) != 1 || page2[0].EventType != audit.EventClockIn {
		t.Errorf("second page = %+v", page2)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{OrganizationID: &orgID, Category: audit.CategoryAttendance, Limit: 1})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountByFilter = %d, want 2", n)
	}
}

func TestStore_Query_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	events, err := store.Query(ctx, audit.QueryFilter{OrganizationID: &orgID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
