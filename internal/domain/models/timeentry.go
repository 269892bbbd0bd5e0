// internal/domain/models/timeentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification flag types
const (
	FlagNetworkUnverified   = "network_unverified"
	FlagOutsideGeofence     = "clock_out_outside_geofence"
	FlagLocationUnavailable = "clock_out_location_unverified"
)

// VerificationFlag is an advisory note attached to a time entry.
type VerificationFlag struct {
	Type      string    `bson:"type" json:"type"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// TimeEntry is one clock-in/clock-out session.
//
// Open is true until the entry is closed. A partial unique index on
// (organization_id, employee_id) where open is true keeps at most one open entry
// per employee.
type TimeEntry struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	EmployeeID     primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeName   string             `bson:"employee_name" json:"employee_name"`
	LocationID     primitive.ObjectID `bson:"location_id" json:"location_id"`
	LocationName   string             `bson:"location_name" json:"location_name"`
	ShiftRef       string             `bson:"shift_ref,omitempty" json:"shift_ref,omitempty"`

	ClockInAt     time.Time    `bson:"clock_in_at" json:"clock_in_at"`
	ClockInCoords *Coordinates `bson:"clock_in_coords,omitempty" json:"clock_in_coords,omitempty"`
	ClockInIP     string       `bson:"clock_in_ip,omitempty" json:"clock_in_ip,omitempty"`

	ClockOutAt     *time.Time   `bson:"clock_out_at" json:"clock_out_at"`
	ClockOutCoords *Coordinates `bson:"clock_out_coords,omitempty" json:"clock_out_coords,omitempty"`
	ClockOutIP     string       `bson:"clock_out_ip,omitempty" json:"clock_out_ip,omitempty"`
	ClockOutReason string       `bson:"clock_out_reason,omitempty" json:"clock_out_reason,omitempty"`

	Open              bool               `bson:"open" json:"open"`
	Approved          bool               `bson:"approved" json:"approved"`
	VerificationFlags []VerificationFlag `bson:"verification_flags" json:"verification_flags"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Duration is the worked time. Open entries are measured up to now.
func (e TimeEntry) Duration(now time.Time) time.Duration {
	end := now
	if e.ClockOutAt != nil {
		end = *e.ClockOutAt
	}
	if end.Before(e.ClockInAt) {
		return 0
	}
	return end.Sub(e.ClockInAt)
}
