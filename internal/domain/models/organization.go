// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization owns locations, shifts, weekly templates and time entries.
//
// TimeZone is a display string chosen by an admin ("Eastern Time", "America/Chicago", ...).
// It is mapped to a canonical zone id by the timezones package before any date arithmetic.
type Organization struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	NameCI    string             `bson:"name_ci"` // ← always stored
	TimeZone  string             `bson:"time_zone"`
	JoinCode  string             `bson:"join_code"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
