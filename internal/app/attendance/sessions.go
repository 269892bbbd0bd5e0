package attendance

import (
	"context"
	"errors"
	"fmt"

	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	"github.com/dalemusser/timeclock/internal/app/system/geofence"
	"github.com/dalemusser/timeclock/internal/app/system/htmlsanitize"
	"github.com/dalemusser/timeclock/internal/app/system/metrics"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxReasonLen = 500

// Sessions owns the open -> closed lifecycle of time entries and keeps at most one
// open entry per employee.
type Sessions struct {
	entries   Entries
	users     Users
	locations Locations
	opts      Options
}

func NewSessions(entries Entries, users Users, locations Locations, opts Options) *Sessions {
	return &Sessions{entries: entries, users: users, locations: locations, opts: opts.withDefaults()}
}

// Current returns the employee's open entry, or nil when there is none.
func (m *Sessions) Current(ctx context.Context, orgID, employeeID primitive.ObjectID) (*models.TimeEntry, error) {
	e, err := m.entries.FindOpen(ctx, orgID, employeeID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// open inserts a new open entry. The store's uniqueness rule is the final word on
// the single-open-entry invariant; losing a race surfaces as AlreadyClockedIn.
func (m *Sessions) open(ctx context.Context, e models.TimeEntry) (models.TimeEntry, *Error) {
	e.Approved = true
	created, err := m.entries.Open(ctx, e)
	if errors.Is(err, timeentrystore.ErrOpenEntryExists) {
		return models.TimeEntry{}, reject(AlreadyClockedIn, "You are already clocked in. Clock out before clocking in again.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to create time entry", err)
	}
	return created, nil
}

// ClockOutRequest is one clock-out attempt.
type ClockOutRequest struct {
	EmployeeID  primitive.ObjectID
	Coordinates *models.Coordinates // optional
	IP          string
	Reason      string // optional; defaults to DefaultReason
}

// ClockOut closes the employee's open entry. Location checks only annotate the entry
// with flags; they never fail the clock-out.
func (m *Sessions) ClockOut(ctx context.Context, req ClockOutRequest) (models.TimeEntry, error) {
	entry, ferr := m.clockOut(ctx, req)
	if ferr != nil {
		m.opts.Logger.Log(levelFor(ferr.Kind), "clock-out failed",
			zap.String("employee_id", req.EmployeeID.Hex()),
			zap.String("kind", string(ferr.Kind)),
			zap.String("details", ferr.Details),
			zap.Error(ferr.Err))
		metrics.ClockDecisions.WithLabelValues("clock_out", string(ferr.Kind)).Inc()
		return models.TimeEntry{}, ferr
	}
	metrics.ClockDecisions.WithLabelValues("clock_out", "accepted").Inc()
	m.opts.Audit.ClockOut(ctx, entry)
	return entry, nil
}

func (m *Sessions) clockOut(ctx context.Context, req ClockOutRequest) (models.TimeEntry, *Error) {
	if req.EmployeeID.IsZero() {
		return models.TimeEntry{}, reject(Unauthorized, "Sign in to clock out.")
	}
	user, err := m.users.GetByID(ctx, req.EmployeeID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.TimeEntry{}, reject(NotFound, "User not found.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to load user", err)
	}
	if user.OrganizationID == nil {
		return models.TimeEntry{}, reject(OrganizationMissing, "Your account is not part of an organization.")
	}

	open, err := m.entries.FindOpen(ctx, *user.OrganizationID, user.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.TimeEntry{}, reject(NoActiveClockIn, "You are not clocked in.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to load open time entry", err)
	}

	now := m.opts.Now().UTC()
	reason := htmlsanitize.TextMax(req.Reason, maxReasonLen)
	if reason == "" {
		reason = DefaultReason
	}

	flags := m.clockOutFlags(ctx, open, req)

	// The close gets its own budget so a slow location check cannot leave the
	// entry open.
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Lookup())
	defer cancel()
	closed, err := m.entries.Close(closeCtx, open.ID, timeentrystore.Closing{
		At:     now,
		Coords: req.Coordinates,
		IP:     req.IP,
		Reason: reason,
		Flags:  flags,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Closed by a concurrent request.
		return models.TimeEntry{}, reject(NoActiveClockIn, "You are not clocked in.")
	}
	if err != nil {
		return models.TimeEntry{}, internal("failed to close time entry", err)
	}
	return closed, nil
}

// clockOutFlags runs the best-effort geofence check for a clock-out. Every failure
// becomes a flag plus a warning.
func (m *Sessions) clockOutFlags(ctx context.Context, open models.TimeEntry, req ClockOutRequest) []models.VerificationFlag {
	if req.Coordinates == nil {
		return nil
	}
	now := m.opts.Now().UTC()
	unverified := func(msg string, err error) []models.VerificationFlag {
		m.opts.Logger.Warn("clock-out location not verified",
			zap.String("entry_id", open.ID.Hex()),
			zap.String("location_id", open.LocationID.Hex()),
			zap.Error(err))
		metrics.VerificationFlags.WithLabelValues(models.FlagLocationUnavailable).Inc()
		return []models.VerificationFlag{{Type: models.FlagLocationUnavailable, Message: msg, Timestamp: now}}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Lookup())
	defer cancel()
	loc, err := m.locations.GetInOrg(lookupCtx, open.OrganizationID, open.LocationID)
	if err != nil {
		return unverified("Clock-out location could not be verified: location unavailable.", err)
	}
	if loc.Coordinates == nil {
		return nil
	}
	res, err := geofence.Verify(req.Coordinates, loc.Coordinates, m.opts.radius(loc), req.IP, loc.AllowedNetworks)
	if err != nil {
		return unverified("Clock-out location could not be verified: invalid coordinates.", err)
	}
	if res.IsWithinGeofence {
		return nil
	}
	metrics.VerificationFlags.WithLabelValues(models.FlagOutsideGeofence).Inc()
	return []models.VerificationFlag{{
		Type:      models.FlagOutsideGeofence,
		Message:   fmt.Sprintf("Clocked out %.0f m from %s (allowed %.0f m).", res.Distance, loc.Name, m.opts.radius(loc)),
		Timestamp: now,
	}}
}

// levelFor keeps policy rejections out of the error log.
func levelFor(k Kind) zapcore.Level {
	if k == Internal {
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}
