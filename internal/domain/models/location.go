// internal/domain/models/location.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultGeofenceRadius is used when a location has no radius configured.
const DefaultGeofenceRadius = 100.0

// DayHours is one day of a location's operating hours. Open and Close are "HH:mm".
type DayHours struct {
	IsOpen bool   `bson:"is_open" json:"isOpen"`
	Open   string `bson:"open" json:"open"`
	Close  string `bson:"close" json:"close"`
}

// Location is a physical site employees clock in at.
type Location struct {
	ID              primitive.ObjectID  `bson:"_id"`
	OrganizationID  primitive.ObjectID  `bson:"organization_id"`
	Name            string              `bson:"name"`
	Coordinates     *Coordinates        `bson:"coordinates,omitempty"`
	RadiusMeters    float64             `bson:"radius_meters,omitempty"`
	AllowedNetworks []string            `bson:"allowed_networks,omitempty"`
	OperatingHours  map[string]DayHours `bson:"operating_hours,omitempty"` // lowercase weekday -> hours
	CreatedAt       time.Time           `bson:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at"`
}

// Radius returns the configured geofence radius, or the default when unset.
func (l Location) Radius() float64 {
	if l.RadiusMeters <= 0 {
		return DefaultGeofenceRadius
	}
	return l.RadiusMeters
}
