// Package geofence checks physical presence: great-circle distance between a device and
// a site, and best-effort matching of the client network address against an allow-list.
package geofence

import (
	"errors"
	"math"
	"strings"

	"github.com/dalemusser/timeclock/internal/domain/models"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// ErrInvalidCoordinates is returned when a coordinate pair is missing, non-finite or
// out of range. It is never silently treated as distance 0.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point is a normalized latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Result is the outcome of Verify.
type Result struct {
	IsWithinGeofence  bool    `json:"isWithinGeofence"`
	Distance          float64 `json:"distance"`
	IsNetworkVerified bool    `json:"isNetworkVerified"`
}

// Normalize accepts either latitude/longitude or lat/lng naming and returns a Point.
// The long names win when both are present.
func Normalize(c *models.Coordinates) (Point, error) {
	if c == nil {
		return Point{}, ErrInvalidCoordinates
	}
	lat, lng := c.Latitude, c.Longitude
	if lat == nil || lng == nil {
		lat, lng = c.Lat, c.Lng
	}
	if lat == nil || lng == nil {
		return Point{}, ErrInvalidCoordinates
	}
	p := Point{Lat: *lat, Lng: *lng}
	if !valid(p) {
		return Point{}, ErrInvalidCoordinates
	}
	return p, nil
}

func valid(p Point) bool {
	for _, v := range []float64{p.Lat, p.Lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b Point) float64 {
	rad := math.Pi / 180
	dLat := (b.Lat - a.Lat) * rad
	dLng := (b.Lng - a.Lng) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*rad)*math.Cos(b.Lat*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceMeters normalizes both coordinate sets and returns the distance between them.
func DistanceMeters(a, b *models.Coordinates) (float64, error) {
	pa, err := Normalize(a)
	if err != nil {
		return 0, err
	}
	pb, err := Normalize(b)
	if err != nil {
		return 0, err
	}
	return Haversine(pa, pb), nil
}

// NetworkAllowed reports whether addr matches the allow-list, either exactly or by
// string prefix ("10.0.1." matches "10.0.1.23"). An empty allow-list allows everything.
func NetworkAllowed(addr string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if addr == a || strings.HasPrefix(addr, a) {
			return true
		}
	}
	return false
}

// Verify computes distance and both verification flags. The geofence passes when the
// distance is at most radiusMeters. Network verification never fails the call; it is
// only reported.
func Verify(user, site *models.Coordinates, radiusMeters float64, networkAddr string, allowed []string) (Result, error) {
	d, err := DistanceMeters(user, site)
	if err != nil {
		return Result{}, err
	}
	return Result{
		IsWithinGeofence:  d <= radiusMeters,
		Distance:          d,
		IsNetworkVerified: NetworkAllowed(networkAddr, allowed),
	}, nil
}
