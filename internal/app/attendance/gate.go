package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/timeclock/internal/app/schedule"
	"github.com/dalemusser/timeclock/internal/app/system/geofence"
	"github.com/dalemusser/timeclock/internal/app/system/metrics"
	"github.com/dalemusser/timeclock/internal/app/system/orgutil"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Gate decides clock-in attempts. An attempt is admitted when the employee has an
// active shift at the location (or, with no shift there today, the location is
// within its operating hours) and the device is inside the location's geofence.
type Gate struct {
	users     Users
	orgs      Organizations
	locations Locations
	schedule  Schedule
	sessions  *Sessions
	opts      Options
}

func NewGate(users Users, orgs Organizations, locations Locations, sched Schedule, sessions *Sessions, opts Options) *Gate {
	return &Gate{
		users:     users,
		orgs:      orgs,
		locations: locations,
		schedule:  sched,
		sessions:  sessions,
		opts:      opts.withDefaults(),
	}
}

// ClockInRequest is one clock-in attempt.
type ClockInRequest struct {
	EmployeeID  primitive.ObjectID
	LocationID  primitive.ObjectID
	Coordinates *models.Coordinates
	IP          string
}

// ClockIn runs the gate and, when it admits the attempt, opens a time entry.
// Failures are always *Error.
func (g *Gate) ClockIn(ctx context.Context, req ClockInRequest) (models.TimeEntry, error) {
	var orgID *primitive.ObjectID
	entry, ferr := g.clockIn(ctx, req, &orgID)
	if ferr != nil {
		g.opts.Logger.Log(levelFor(ferr.Kind), "clock-in rejected",
			zap.String("employee_id", req.EmployeeID.Hex()),
			zap.String("location_id", req.LocationID.Hex()),
			zap.String("kind", string(ferr.Kind)),
			zap.String("details", ferr.Details),
			zap.Error(ferr.Err))
		metrics.ClockDecisions.WithLabelValues("clock_in", string(ferr.Kind)).Inc()
		if !req.EmployeeID.IsZero() {
			g.opts.Audit.ClockInRejected(ctx, req.EmployeeID, orgID, req.LocationID.Hex(), req.IP, string(ferr.Kind), ferr.Details)
		}
		return models.TimeEntry{}, ferr
	}
	metrics.ClockDecisions.WithLabelValues("clock_in", "accepted").Inc()
	for _, f := range entry.VerificationFlags {
		metrics.VerificationFlags.WithLabelValues(f.Type).Inc()
	}
	g.opts.Audit.ClockIn(ctx, entry)
	return entry, nil
}

func (g *Gate) clockIn(ctx context.Context, req ClockInRequest, orgOut **primitive.ObjectID) (models.TimeEntry, *Error) {
	now := g.opts.Now()

	if req.EmployeeID.IsZero() {
		return models.TimeEntry{}, reject(Unauthorized, "Sign in to clock in.")
	}
	if req.LocationID.IsZero() {
		return models.TimeEntry{}, reject(InvalidInput, "locationId is required.")
	}
	if req.Coordinates == nil {
		return models.TimeEntry{}, reject(InvalidInput, "coordinates are required.")
	}
	if _, err := geofence.Normalize(req.Coordinates); err != nil {
		return models.TimeEntry{}, &Error{Kind: InvalidInput, Details: "coordinates must be a valid latitude and longitude.", Err: err}
	}

	user, err := g.users.GetByID(ctx, req.EmployeeID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.TimeEntry{}, reject(NotFound, "User not found.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to load user", err)
	}
	if user.OrganizationID == nil {
		return models.TimeEntry{}, reject(OrganizationMissing, "Your account is not part of an organization.")
	}
	orgID := *user.OrganizationID
	*orgOut = &orgID

	// Checked before anything location-specific so a second attempt is refused
	// whatever location or coordinates it names.
	current, err := g.sessions.Current(ctx, orgID, user.ID)
	if err != nil {
		return models.TimeEntry{}, internal("failed to check open time entry", err)
	}
	if current != nil {
		return models.TimeEntry{}, reject(AlreadyClockedIn, "You are already clocked in. Clock out before clocking in again.")
	}

	loc, err := g.locations.GetInOrg(ctx, orgID, req.LocationID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.TimeEntry{}, reject(NotFound, "Location not found.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to load location", err)
	}

	_, zone, err := orgutil.Zone(ctx, g.orgs, orgID, g.opts.Logger)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.TimeEntry{}, reject(OrganizationMissing, "Your organization no longer exists.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to load organization", err)
	}

	dayStart, dayEnd := timezones.DayWindow(zone, now)
	shifts, err := g.schedule.EffectiveShifts(ctx, schedule.Query{
		OrganizationID: orgID,
		EmployeeID:     &user.ID,
		Start:          dayStart,
		End:            dayEnd,
		Location:       zone,
	})
	if err != nil {
		return models.TimeEntry{}, internal("failed to resolve schedule", err)
	}

	var here []schedule.EffectiveShift
	for _, s := range shifts {
		if s.LocationID() != loc.ID {
			continue
		}
		if r, ok := s.(schedule.Real); ok && r.Cancelled() {
			continue
		}
		here = append(here, s)
	}

	var active schedule.EffectiveShift
	if len(here) > 0 {
		var ferr *Error
		if active, ferr = g.activeShift(now, zone, here); ferr != nil {
			return models.TimeEntry{}, ferr
		}
	} else if ferr := checkOperatingHours(now, zone, loc); ferr != nil {
		return models.TimeEntry{}, ferr
	}

	if loc.Coordinates == nil {
		return models.TimeEntry{}, internal("location has no coordinates configured", nil)
	}
	radius := g.opts.radius(loc)
	res, err := geofence.Verify(req.Coordinates, loc.Coordinates, radius, req.IP, loc.AllowedNetworks)
	if err != nil {
		return models.TimeEntry{}, internal("location coordinates are invalid", err)
	}
	if !res.IsWithinGeofence {
		return models.TimeEntry{}, reject(LocationVerificationFailed,
			fmt.Sprintf("You are %.0f meters from %s. You must be within %.0f meters to clock in.", res.Distance, loc.Name, radius))
	}

	entry := models.TimeEntry{
		OrganizationID: orgID,
		EmployeeID:     user.ID,
		EmployeeName:   user.FullName,
		LocationID:     loc.ID,
		LocationName:   loc.Name,
		ClockInAt:      now.UTC(),
		ClockInCoords:  req.Coordinates,
		ClockInIP:      req.IP,
	}
	if active != nil {
		entry.ShiftRef = active.ID()
	}
	if !res.IsNetworkVerified {
		entry.VerificationFlags = append(entry.VerificationFlags, models.VerificationFlag{
			Type:      models.FlagNetworkUnverified,
			Message:   fmt.Sprintf("Network address %s is not on the allowed list for %s.", req.IP, loc.Name),
			Timestamp: now.UTC(),
		})
	}
	return g.sessions.open(ctx, entry)
}

// activeShift returns the first shift whose window [start-grace, end] contains now.
// Both ends are inclusive.
func (g *Gate) activeShift(now time.Time, zone *time.Location, shifts []schedule.EffectiveShift) (schedule.EffectiveShift, *Error) {
	var (
		nextOpen time.Time
		ended    time.Time
	)
	for _, s := range shifts {
		opens := s.Start().Add(-g.opts.Grace)
		if !now.Before(opens) && !now.After(s.End()) {
			return s, nil
		}
		switch {
		case now.Before(opens):
			if nextOpen.IsZero() || opens.Before(nextOpen) {
				nextOpen = opens
			}
		case now.After(s.End()):
			if s.End().After(ended) {
				ended = s.End()
			}
		}
	}
	switch {
	case !nextOpen.IsZero():
		return nil, reject(OutsideShiftHours, "too early, starting at "+nextOpen.In(zone).Format(timezones.TimeLayout))
	case !ended.IsZero():
		return nil, reject(OutsideShiftHours, "shift ended at "+ended.In(zone).Format(timezones.TimeLayout))
	}
	return nil, reject(OutsideShiftHours, "Your shift is not currently active.")
}

// checkOperatingHours applies a location's hours for the local weekday. Locations
// without hours for that day do not block; closed days do; otherwise the local time
// must fall in [open, close).
func checkOperatingHours(now time.Time, zone *time.Location, loc models.Location) *Error {
	hhmm, weekday := timezones.LocalTimeOf(zone, now)
	hours, ok := loc.OperatingHours[weekday]
	if !ok {
		return nil
	}
	day := strings.ToUpper(weekday[:1]) + weekday[1:]
	if !hours.IsOpen {
		return reject(OutsideOperatingHours, fmt.Sprintf("%s is closed on %s.", loc.Name, day))
	}
	open, err := timezones.ParseHHMM(hours.Open)
	if err != nil {
		return internal("location operating hours are invalid", err)
	}
	closing, err := timezones.ParseHHMM(hours.Close)
	if err != nil {
		return internal("location operating hours are invalid", err)
	}
	cur, err := timezones.ParseHHMM(hhmm)
	if err != nil {
		return internal("failed to read local time", err)
	}
	if cur < open {
		return reject(OutsideOperatingHours, fmt.Sprintf("%s opens at %s on %s.", loc.Name, hours.Open, day))
	}
	if cur >= closing {
		return reject(OutsideOperatingHours, fmt.Sprintf("%s closed at %s on %s.", loc.Name, hours.Close, day))
	}
	return nil
}
