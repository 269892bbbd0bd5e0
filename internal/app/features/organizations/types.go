// internal/app/features/organizations/types.go
package organizations

import (
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
)

type orgView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TimeZone string `json:"timeZone"` // as entered by an admin
	Zone     string `json:"zone"`     // the zone dates are counted in
	ZoneName string `json:"zoneLabel"`
	JoinCode string `json:"joinCode,omitempty"`
}

func newOrgView(o models.Organization, admin bool) orgView {
	zone := timezones.Canonical(o.TimeZone)
	v := orgView{
		ID:       o.ID.Hex(),
		Name:     o.Name,
		TimeZone: o.TimeZone,
		Zone:     zone,
		ZoneName: timezones.Label(zone),
	}
	if admin {
		v.JoinCode = o.JoinCode
	}
	return v
}

type hoursInput struct {
	IsOpen bool   `json:"isOpen"`
	Open   string `json:"open" validate:"required_if=IsOpen true,omitempty,hhmm" label:"open"`
	Close  string `json:"close" validate:"required_if=IsOpen true,omitempty,hhmm" label:"close"`
}

type locationInput struct {
	Name            string                `json:"name" validate:"required,max=200" label:"name"`
	Latitude        *float64              `json:"latitude" validate:"required,latitude" label:"latitude"`
	Longitude       *float64              `json:"longitude" validate:"required,longitude" label:"longitude"`
	RadiusMeters    float64               `json:"radiusMeters" validate:"gte=0,lte=10000" label:"radiusMeters"`
	AllowedNetworks []string              `json:"allowedNetworks" validate:"dive,cidr|ip" label:"allowedNetworks"`
	OperatingHours  map[string]hoursInput `json:"operatingHours" validate:"dive,keys,weekday,endkeys" label:"operatingHours"`
}

type locationView struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Coordinates     *models.Coordinates        `json:"coordinates,omitempty"`
	RadiusMeters    float64                    `json:"radiusMeters"`
	AllowedNetworks []string                   `json:"allowedNetworks,omitempty"`
	OperatingHours  map[string]models.DayHours `json:"operatingHours,omitempty"`
}

func newLocationView(l models.Location) locationView {
	return locationView{
		ID:              l.ID.Hex(),
		Name:            l.Name,
		Coordinates:     l.Coordinates,
		RadiusMeters:    l.Radius(),
		AllowedNetworks: l.AllowedNetworks,
		OperatingHours:  l.OperatingHours,
	}
}
