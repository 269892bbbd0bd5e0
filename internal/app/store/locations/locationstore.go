// internal/app/store/locations/locationstore.go
package locationstore

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
	return &Store{c: db.Collection("locations")}
}

func (s *Store) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	now := time.Now().UTC()
	if loc.ID.IsZero() {
		loc.ID = primitive.NewObjectID()
	}
	loc.CreatedAt = now
	loc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// GetInOrg loads a location scoped to its organization, or mongo.ErrNoDocuments.
func (s *Store) GetInOrg(ctx context.Context, orgID, id primitive.ObjectID) (models.Location, error) {
	var loc models.Location
	err := s.c.FindOne(ctx, bson.M{"_id": id, "organization_id": orgID}).Decode(&loc)
	return loc, err
}

func (s *Store) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.Location, error) {
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Location
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
