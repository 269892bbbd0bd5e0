package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	"github.com/dalemusser/timeclock/internal/app/system/indexes"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"github.com/dalemusser/timeclock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{
		Name:     "Test Organization",
		TimeZone: "Eastern Time",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "test organization" {
		t.Errorf("NameCI = %q, want %q", created.NameCI, "test organization")
	}
	if len(created.JoinCode) != 6 {
		t.Errorf("JoinCode = %q, want 6 characters", created.JoinCode)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TimeZone != "Eastern Time" {
		t.Errorf("TimeZone = %q, want the display string as entered", got.TimeZone)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	if _, err := store.Create(ctx, models.Organization{Name: "Duplicate Test", TimeZone: "UTC"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{Name: "DUPLICATE test", TimeZone: "UTC"})
	if err != organizationstore.ErrDuplicateOrganization {
		t.Errorf("expected ErrDuplicateOrganization, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{Name: "Café Lumière", TimeZone: "Europe/Paris"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, name := range []string{"Café Lumière", "cafe lumiere", "CAFÉ LUMIÈRE"} {
		got, err := store.GetByName(ctx, name)
		if err != nil {
			t.Errorf("GetByName(%q) failed: %v", name, err)
			continue
		}
		if got.ID != created.ID {
			t.Errorf("GetByName(%q) = %s, want %s", name, got.ID.Hex(), created.ID.Hex())
		}
	}

	if _, err := store.GetByName(ctx, "Other"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByName(unknown) = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_SetTimeZone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{Name: "Zones", TimeZone: "UTC"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetTimeZone(ctx, created.ID, "Pacific Time"); err != nil {
		t.Fatalf("SetTimeZone failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TimeZone != "Pacific Time" {
		t.Errorf("TimeZone = %q, want %q", got.TimeZone, "Pacific Time")
	}

	if err := store.SetTimeZone(ctx, primitive.NewObjectID(), "UTC"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("SetTimeZone(unknown) = %v, want mongo.ErrNoDocuments", err)
	}
}
