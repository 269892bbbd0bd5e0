package indexes_test

import (
	"testing"

	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	"github.com/dalemusser/timeclock/internal/app/system/indexes"
	"github.com/dalemusser/timeclock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":            {"uniq_users_email", "idx_users_org_fullnameci_id"},
		"organizations":    {"uniq_orgs_nameci", "uniq_orgs_join_code"},
		"locations":        {"idx_locations_org_name"},
		"shifts":           {"idx_shifts_org_start_id", "idx_shifts_org_employee_start", "idx_shifts_org_group"},
		"weekly_templates": {"uniq_templates_org_employee"},
		"time_entries":     {timeentrystore.OpenIndexName, "idx_time_entries_org_clock_in"},
	}
	for coll, want := range expected {
		names := indexNames(t, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesMismatchedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("locations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "name", Value: 1}},
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	names := indexNames(t, db, "locations")
	if !names["idx_locations_org_name"] {
		t.Error("expected idx_locations_org_name after reconcile")
	}
	if names["organization_id_1_name_1"] {
		t.Error("legacy index name should have been replaced")
	}
}

func TestEnsureAll_UniqueIndexesEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	users := db.Collection("users")
	if _, err := users.InsertOne(ctx, bson.M{"email": "ada@example.com"}); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := users.InsertOne(ctx, bson.M{"email": "ada@example.com"}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second user with same email: got %v, want duplicate key error", err)
	}

	orgID, empID := primitive.NewObjectID(), primitive.NewObjectID()
	tpl := db.Collection("weekly_templates")
	if _, err := tpl.InsertOne(ctx, bson.M{"organization_id": orgID, "employee_id": empID}); err != nil {
		t.Fatalf("insert template: %v", err)
	}
	if _, err := tpl.InsertOne(ctx, bson.M{"organization_id": orgID, "employee_id": empID}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second template for employee: got %v, want duplicate key error", err)
	}
}

func TestEnsureAll_OneOpenEntryPerEmployee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	orgID, empID := primitive.NewObjectID(), primitive.NewObjectID()
	entries := db.Collection("time_entries")
	doc := func(open bool) bson.M {
		return bson.M{"organization_id": orgID, "employee_id": empID, "open": open}
	}

	// closed entries never conflict
	for i := 0; i < 2; i++ {
		if _, err := entries.InsertOne(ctx, doc(false)); err != nil {
			t.Fatalf("insert closed entry %d: %v", i, err)
		}
	}
	if _, err := entries.InsertOne(ctx, doc(true)); err != nil {
		t.Fatalf("insert open entry: %v", err)
	}
	if _, err := entries.InsertOne(ctx, doc(true)); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second open entry: got %v, want duplicate key error", err)
	}
}
