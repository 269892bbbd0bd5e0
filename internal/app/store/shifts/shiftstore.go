// internal/app/store/shifts/shiftstore.go
package shiftstore

import (
	"context"
	"time"

	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("shifts")}
}

func prepare(sh *models.Shift, now time.Time) {
	if sh.ID.IsZero() {
		sh.ID = primitive.NewObjectID()
	}
	if sh.Status == "" {
		sh.Status = models.ShiftScheduled
	}
	sh.Start = sh.Start.UTC()
	sh.End = sh.End.UTC()
	sh.CreatedAt = now
}

// Create inserts one shift.
func (s *Store) Create(ctx context.Context, sh models.Shift) (models.Shift, error) {
	prepare(&sh, time.Now().UTC())
	if _, err := s.c.InsertOne(ctx, sh); err != nil {
		return models.Shift{}, err
	}
	return sh, nil
}

// CreateMany inserts a batch of shifts (one recurrence group, typically).
func (s *Store) CreateMany(ctx context.Context, shifts []models.Shift) ([]models.Shift, error) {
	if len(shifts) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(shifts))
	for i := range shifts {
		prepare(&shifts[i], now)
		docs = append(docs, shifts[i])
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return shifts, nil
}

func (s *Store) GetByID(ctx context.Context, orgID, id primitive.ObjectID) (models.Shift, error) {
	var sh models.Shift
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&sh)
	return sh, err
}

// ListInRange returns an organization's shifts whose start falls in [start, end],
// optionally limited to one employee, ordered by start.
func (s *Store) ListInRange(ctx context.Context, orgID primitive.ObjectID, employeeID *primitive.ObjectID, start, end time.Time) ([]models.Shift, error) {
	filter := bson.M{
		"organization_id": orgID,
		"start":           bson.M{"$gte": start, "$lte": end},
	}
	if employeeID != nil {
		filter["employee_id"] = *employeeID
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Shift
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes one shift. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orgID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteGroup removes every shift in a recurrence group.
func (s *Store) DeleteGroup(ctx context.Context, orgID primitive.ObjectID, groupID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": orgID, "recurrence_group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
