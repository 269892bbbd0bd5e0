package templatestore_test

import (
	"errors"
	"testing"

	templatestore "github.com/dalemusser/timeclock/internal/app/store/weeklytemplates"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/timeclock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_SaveOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	emp := primitive.NewObjectID()
	loc := primitive.NewObjectID()

	first, err := store.Save(ctx, models.WeeklyTemplate{
		OrganizationID: orgID,
		EmployeeID:     emp,
		EmployeeName:   "Test Employee",
		Days: map[string]models.ShiftSlot{
			"monday":  {Enabled: true, Start: "09:00", End: "17:00", LocationID: loc, LocationName: "Main St"},
			"tuesday": {Enabled: true, Start: "09:00", End: "17:00", LocationID: loc, LocationName: "Main St"},
		},
	})
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second, err := store.Save(ctx, models.WeeklyTemplate{
		OrganizationID: orgID,
		EmployeeID:     emp,
		EmployeeName:   "Test Employee",
		Days: map[string]models.ShiftSlot{
			"friday": {Enabled: true, Start: "22:00", End: "06:00", LocationID: loc, LocationName: "Main St"},
		},
	})
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second Save id = %s, want the existing %s", second.ID.Hex(), first.ID.Hex())
	}

	n, err := db.Collection("weekly_templates").CountDocuments(ctx, bson.M{})
	if err != nil || n != 1 {
		t.Errorf("template count = %d, %v; want 1", n, err)
	}

	got, err := store.GetForEmployee(ctx, orgID, emp)
	if err != nil {
		t.Fatalf("GetForEmployee failed: %v", err)
	}
	if _, ok := got.Slot("monday"); ok {
		t.Error("monday survived a whole-document overwrite")
	}
	if s, ok := got.Slot("friday"); !ok || s.Start != "22:00" {
		t.Errorf("friday slot = %+v, %v", s, ok)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := templatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orgID := primitive.NewObjectID()
	var emps []primitive.ObjectID
	for _, name := range []string{"Zed", "Amy"} {
		emp := primitive.NewObjectID()
		emps = append(emps, emp)
		if _, err := store.Save(ctx, models.WeeklyTemplate{OrganizationID: orgID, EmployeeID: emp, EmployeeName: name}); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
	}

	list, err := store.ListByOrg(ctx, orgID)
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	if len(list) != 2 || list[0].EmployeeName != "Amy" {
		t.Errorf("ListByOrg = %+v, want Amy first", list)
	}
	if list[0].Days == nil {
		t.Error("saved template without days should store an empty map")
	}

	if n, err := store.Delete(ctx, orgID, emps[0]); err != nil || n != 1 {
		t.Errorf("Delete = %d, %v; want 1, nil", n, err)
	}
	if _, err := store.GetForEmployee(ctx, orgID, emps[0]); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetForEmployee after delete = %v, want mongo.ErrNoDocuments", err)
	}
}
