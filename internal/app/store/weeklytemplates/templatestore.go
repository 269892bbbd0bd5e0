// internal/app/store/weeklytemplates/templatestore.go
package templatestore

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
	return &Store{c: db.Collection("weekly_templates")}
}

// Save replaces the employee's template as a whole document (no per-day patching).
func (s *Store) Save(ctx context.Context, t models.WeeklyTemplate) (models.WeeklyTemplate, error) {
	t.UpdatedAt = time.Now().UTC()
	if t.Days == nil {
		t.Days = map[string]models.ShiftSlot{}
	}
	filter := bson.M{"organization_id": t.OrganizationID, "employee_id": t.EmployeeID}

	var existing struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Decode(&existing)
	switch {
	case err == nil:
		t.ID = existing.ID
	case err == mongo.ErrNoDocuments:
		t.ID = primitive.NewObjectID()
	default:
		return models.WeeklyTemplate{}, err
	}

	_, err = s.c.ReplaceOne(ctx, filter, t, options.Replace().SetUpsert(true))
	if err != nil {
		return models.WeeklyTemplate{}, err
	}
	return t, nil
}

// GetForEmployee returns the employee's template or mongo.ErrNoDocuments.
func (s *Store) GetForEmployee(ctx context.Context, orgID, employeeID primitive.ObjectID) (models.WeeklyTemplate, error) {
	var t models.WeeklyTemplate
	err := s.c.FindOne(ctx, bson.M{"organization_id": orgID, "employee_id": employeeID}).Decode(&t)
	return t, err
}

// ListByOrg returns every template in an organization.
func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.WeeklyTemplate, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "employee_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.WeeklyTemplate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an employee's template.
func (s *Store) Delete(ctx context.Context, orgID, employeeID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"organization_id": orgID, "employee_id": employeeID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
