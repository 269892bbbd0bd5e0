// Package attendance decides clock-in attempts and manages the open/closed lifecycle
// of time entries.
package attendance

import (
	"context"
	"time"

	"github.com/dalemusser/timeclock/internal/app/schedule"
	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultGrace is how early before a shift's start clock-in opens.
const DefaultGrace = 15 * time.Minute

// DefaultReason is recorded when a clock-out gives no reason.
const DefaultReason = "manual"

// Collaborators. Lookups return mongo.ErrNoDocuments for missing records.
type (
	Users interface {
		GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	}
	Organizations interface {
		GetByID(ctx context.Context, id primitive.ObjectID) (models.Organization, error)
	}
	Locations interface {
		GetInOrg(ctx context.Context, orgID, id primitive.ObjectID) (models.Location, error)
	}
	Schedule interface {
		EffectiveShifts(ctx context.Context, q schedule.Query) ([]schedule.EffectiveShift, error)
	}
	// Entries must reject a second open entry for the same employee with
	// timeentrystore.ErrOpenEntryExists, and must only close entries that are
	// still open.
	Entries interface {
		FindOpen(ctx context.Context, orgID, employeeID primitive.ObjectID) (models.TimeEntry, error)
		Open(ctx context.Context, e models.TimeEntry) (models.TimeEntry, error)
		Close(ctx context.Context, id primitive.ObjectID, c timeentrystore.Closing) (models.TimeEntry, error)
	}
	Auditor interface {
		ClockIn(ctx context.Context, e models.TimeEntry)
		ClockInRejected(ctx context.Context, userID primitive.ObjectID, orgID *primitive.ObjectID, locationID, ip, kind, reason string)
		ClockOut(ctx context.Context, e models.TimeEntry)
	}
)

// Options tune the gate and the session manager. Zero values take defaults.
type Options struct {
	Grace         time.Duration
	DefaultRadius float64
	Logger        *zap.Logger
	Audit         Auditor
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Grace <= 0 {
		o.Grace = DefaultGrace
	}
	if o.DefaultRadius <= 0 {
		o.DefaultRadius = models.DefaultGeofenceRadius
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Audit == nil {
		o.Audit = nopAuditor{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) radius(l models.Location) float64 {
	if l.RadiusMeters > 0 {
		return l.RadiusMeters
	}
	return o.DefaultRadius
}

type nopAuditor struct{}

func (nopAuditor) ClockIn(context.Context, models.TimeEntry) {}
func (nopAuditor) ClockInRejected(context.Context, primitive.ObjectID, *primitive.ObjectID, string, string, string, string) {
}
func (nopAuditor) ClockOut(context.Context, models.TimeEntry) {}
