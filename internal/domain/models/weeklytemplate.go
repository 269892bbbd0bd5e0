// internal/domain/models/weeklytemplate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekdays lists the template day keys in calendar order.
var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ShiftSlot is one day of a weekly template. Start and End are local "HH:mm".
type ShiftSlot struct {
	Enabled      bool               `bson:"enabled" json:"enabled"`
	Start        string             `bson:"start" json:"start"`
	End          string             `bson:"end" json:"end"`
	LocationID   primitive.ObjectID `bson:"location_id" json:"location_id"`
	LocationName string             `bson:"location_name" json:"location_name"`
}

// WeeklyTemplate is an employee's recurring baseline schedule. There is at most one
// per (organization, employee); saves overwrite the whole document.
type WeeklyTemplate struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	OrganizationID primitive.ObjectID   `bson:"organization_id" json:"organization_id"`
	EmployeeID     primitive.ObjectID   `bson:"employee_id" json:"employee_id"`
	EmployeeName   string               `bson:"employee_name" json:"employee_name"`
	Days           map[string]ShiftSlot `bson:"days" json:"days"` // lowercase weekday -> slot
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// Slot returns the enabled slot for a weekday, if any.
func (t WeeklyTemplate) Slot(weekday string) (ShiftSlot, bool) {
	s, ok := t.Days[weekday]
	if !ok || !s.Enabled {
		return ShiftSlot{}, false
	}
	return s, true
}
