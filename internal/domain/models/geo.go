// internal/domain/models/geo.go
package models

// Coordinates is a latitude/longitude pair as it arrives from devices and as it sits
// in older documents. Both naming conventions are accepted; geofence.Normalize picks
// whichever pair is present.
type Coordinates struct {
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Lat       *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng       *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

// LatLng builds Coordinates using the long field names.
func LatLng(lat, lng float64) *Coordinates {
	return &Coordinates{Latitude: &lat, Longitude: &lng}
}
