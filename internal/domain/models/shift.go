// internal/domain/models/shift.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shift statuses
const (
	ShiftScheduled = "scheduled"
	ShiftCancelled = "cancelled"
)

// Shift is a one-off scheduled shift. EmployeeName and LocationName are snapshots taken
// when the shift was created; later renames do not rewrite them.
type Shift struct {
	ID                primitive.ObjectID `bson:"_id"`
	OrganizationID    primitive.ObjectID `bson:"organization_id"`
	EmployeeID        primitive.ObjectID `bson:"employee_id"`
	EmployeeName      string             `bson:"employee_name"`
	LocationID        primitive.ObjectID `bson:"location_id"`
	LocationName      string             `bson:"location_name"`
	Start             time.Time          `bson:"start"`
	End               time.Time          `bson:"end"`
	Status            string             `bson:"status"`
	RecurrenceGroupID string             `bson:"recurrence_group_id,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
}
