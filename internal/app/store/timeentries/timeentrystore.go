// internal/app/store/timeentries/timeentrystore.go
package timeentrystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/timeclock/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrOpenEntryExists is returned by Open when the employee already has an open entry.
var ErrOpenEntryExists = errors.New("employee already has an open time entry")

// OpenIndexName is the partial unique index that allows one open entry per employee.
const OpenIndexName = "uniq_time_entries_open_per_employee"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("time_entries")}
}

// EnsureIndexes creates the indexes the clock flow relies on. The open-entry index is
// what makes Open a compare-and-swap: a second insert with open=true for the same
// employee fails with a duplicate key.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetName(OpenIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"open": true}),
		},
		{
			Keys:    bson.D{{Key: "organization_id", Value: 1}, {Key: "clock_in_at", Value: -1}},
			Options: options.Index().SetName("idx_time_entries_org_clock_in"),
		},
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "clock_in_at", Value: -1}},
			Options: options.Index().SetName("idx_time_entries_employee_clock_in"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Open inserts a new open entry. Missing ids and timestamps are filled in.
func (s *Store) Open(ctx context.Context, e models.TimeEntry) (models.TimeEntry, error) {
	now := time.Now().UTC()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.ClockInAt.IsZero() {
		e.ClockInAt = now
	}
	if e.VerificationFlags == nil {
		e.VerificationFlags = []models.VerificationFlag{}
	}
	e.Open = true
	e.ClockOutAt = nil
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TimeEntry{}, ErrOpenEntryExists
		}
		return models.TimeEntry{}, err
	}
	return e, nil
}

// FindOpen returns the employee's open entry or mongo.ErrNoDocuments.
func (s *Store) FindOpen(ctx context.Context, orgID, employeeID primitive.ObjectID) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := s.c.FindOne(ctx, bson.M{
		"organization_id": orgID,
		"employee_id":     employeeID,
		"open":            true,
	}).Decode(&e)
	return e, err
}

// Closing carries the clock-out fields written by Close.
type Closing struct {
	At     time.Time
	Coords *models.Coordinates
	IP     string
	Reason string
	Flags  []models.VerificationFlag
}

// Close closes an open entry and appends any flags. It only matches entries that are
// still open, so a concurrent second close gets mongo.ErrNoDocuments.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID, c Closing) (models.TimeEntry, error) {
	set := bson.M{
		"open":             false,
		"clock_out_at":     c.At,
		"clock_out_ip":     c.IP,
		"clock_out_reason": c.Reason,
		"updated_at":       time.Now().UTC(),
	}
	if c.Coords != nil {
		set["clock_out_coords"] = c.Coords
	}
	update := bson.M{"$set": set}
	if len(c.Flags) > 0 {
		update["$push"] = bson.M{"verification_flags": bson.M{"$each": c.Flags}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.TimeEntry
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "open": true}, update, opts).Decode(&out)
	if err != nil {
		return models.TimeEntry{}, err
	}
	return out, nil
}

// GetByID loads one entry.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	return e, err
}

// ListInRange returns entries for an organization whose clock-in falls in [start, end],
// optionally limited to one employee, oldest first.
func (s *Store) ListInRange(ctx context.Context, orgID primitive.ObjectID, employeeID *primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error) {
	filter := bson.M{
		"organization_id": orgID,
		"clock_in_at":     bson.M{"$gte": start, "$lte": end},
	}
	if employeeID != nil {
		filter["employee_id"] = *employeeID
	}
	opts := options.Find().SetSort(bson.D{{Key: "clock_in_at", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.TimeEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
