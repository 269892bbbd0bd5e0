// Package orgutil resolves per-organization settings shared by the HTTP features.
package orgutil

import (
	"context"
	"time"

	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrgGetter loads an organization; a missing one is mongo.ErrNoDocuments.
type OrgGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error)
}

// Zone loads the organization and the time zone its calendar days are counted in.
// A display zone the curated list does not know falls back to the default zone.
func Zone(ctx context.Context, orgs OrgGetter, orgID primitive.ObjectID, logger *zap.Logger) (models.Organization, *time.Location, error) {
	org, err := orgs.GetByID(ctx, orgID)
	if err != nil {
		return models.Organization{}, nil, err
	}
	id, known := timezones.Resolve(org.TimeZone)
	if !known && logger != nil {
		logger.Warn("unknown organization time zone, using default",
			zap.String("org_id", orgID.Hex()),
			zap.String("time_zone", org.TimeZone),
			zap.String("default", id))
	}
	return org, timezones.ZoneFor(id), nil
}

// DateRange converts inclusive local dates "YYYY-MM-DD" into the instants bounding
// them in loc: local midnight of start through the last millisecond of end.
func DateRange(loc *time.Location, start, end string) (time.Time, time.Time, error) {
	from, err := timezones.ZonedInstant(loc, start, "00:00")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := timezones.ZonedInstant(loc, end, "12:00")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	_, to := timezones.DayWindow(loc, last)
	return from, to, nil
}

// Days counts the local calendar days from start to end inclusive.
func Days(loc *time.Location, start, end time.Time) int {
	return len(timezones.Dates(loc, start, end))
}
