// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"strconv"

	"github.com/dalemusser/timeclock/internal/app/store/audit"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by each Config setting.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration, one destination per category.
type Config struct {
	Auth       string
	Attendance string
	Admin      string
}

// Valid reports whether v is an accepted destination.
func Valid(v string) bool {
	switch v {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and to structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. A nil store disables the MongoDB destination.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	// Rejections are expected outcomes, so both go out at Info.
	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAttendance:
		setting = l.config.Attendance
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}

	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}

	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, ip string, userID primitive.ObjectID, orgID *primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLoginSuccess,
		UserID:         &userID,
		OrganizationID: orgID,
		IP:             ip,
		Success:        true,
		Details:        map[string]string{"auth_method": authMethod},
	})
}

// LoginFailed logs a rejected sign-in attempt.
func (l *Logger) LoginFailed(ctx context.Context, ip, email, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		IP:            ip,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, ip string, userID primitive.ObjectID, orgID *primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      audit.EventLogout,
		UserID:         &userID,
		OrganizationID: orgID,
		IP:             ip,
		Success:        true,
	})
}

// --- Attendance Events ---

// ClockIn logs an opened time entry.
func (l *Logger) ClockIn(ctx context.Context, e models.TimeEntry) {
	details := map[string]string{
		"entry_id":    e.ID.Hex(),
		"location_id": e.LocationID.Hex(),
	}
	if e.ShiftRef != "" {
		details["shift_ref"] = e.ShiftRef
	}
	if len(e.VerificationFlags) > 0 {
		details["flags"] = strconv.Itoa(len(e.VerificationFlags))
	}
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAttendance,
		EventType:      audit.EventClockIn,
		UserID:         &e.EmployeeID,
		OrganizationID: &e.OrganizationID,
		IP:             e.ClockInIP,
		Success:        true,
		Details:        details,
	})
}

// ClockInRejected logs a clock-in attempt the gate turned away.
func (l *Logger) ClockInRejected(ctx context.Context, userID primitive.ObjectID, orgID *primitive.ObjectID, locationID, ip, kind, reason string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAttendance,
		EventType:      audit.EventClockInRejected,
		UserID:         &userID,
		OrganizationID: orgID,
		IP:             ip,
		Success:        false,
		FailureReason:  reason,
		Details: map[string]string{
			"kind":        kind,
			"location_id": locationID,
		},
	})
}

// ClockOut logs a closed time entry.
func (l *Logger) ClockOut(ctx context.Context, e models.TimeEntry) {
	details := map[string]string{
		"entry_id": e.ID.Hex(),
		"reason":   e.ClockOutReason,
	}
	if len(e.VerificationFlags) > 0 {
		details["flags"] = strconv.Itoa(len(e.VerificationFlags))
	}
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAttendance,
		EventType:      audit.EventClockOut,
		UserID:         &e.EmployeeID,
		OrganizationID: &e.OrganizationID,
		IP:             e.ClockOutIP,
		Success:        true,
		Details:        details,
	})
}

// --- Admin Events ---

// TemplateSaved logs a weekly template overwrite.
func (l *Logger) TemplateSaved(ctx context.Context, ip string, actorID, employeeID, orgID primitive.ObjectID, enabledDays int) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventTemplateSaved,
		UserID:         &employeeID,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             ip,
		Success:        true,
		Details:        map[string]string{"enabled_days": strconv.Itoa(enabledDays)},
	})
}

// ShiftsCreated logs the creation of one shift or a recurrence group.
func (l *Logger) ShiftsCreated(ctx context.Context, ip string, actorID, employeeID, orgID primitive.ObjectID, count int, groupID string) {
	details := map[string]string{"count": strconv.Itoa(count)}
	if groupID != "" {
		details["recurrence_group_id"] = groupID
	}
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventShiftCreated,
		UserID:         &employeeID,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             ip,
		Success:        true,
		Details:        details,
	})
}

// ShiftDeleted logs the deletion of one stored shift.
func (l *Logger) ShiftDeleted(ctx context.Context, ip string, actorID, orgID, shiftID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventShiftDeleted,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             ip,
		Success:        true,
		Details:        map[string]string{"shift_id": shiftID.Hex()},
	})
}

// ShiftGroupDeleted logs the deletion of a recurrence group.
func (l *Logger) ShiftGroupDeleted(ctx context.Context, ip string, actorID, orgID primitive.ObjectID, groupID string, deleted int64) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventShiftGroupDeleted,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             ip,
		Success:        true,
		Details: map[string]string{
			"recurrence_group_id": groupID,
			"deleted":             strconv.FormatInt(deleted, 10),
		},
	})
}

// OrgTimeZoneUpdated logs a change of the organization's display time zone.
func (l *Logger) OrgTimeZoneUpdated(ctx context.Context, ip string, actorID, orgID primitive.ObjectID, from, to string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOrgTimeZoneUpdated,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             ip,
		Success:        true,
		Details:        map[string]string{"from": from, "to": to},
	})
}

// LocationCreated logs a new clock-in location.
func (l *Logger) LocationCreated(ctx context.Context, ip string, actorID primitive.ObjectID, loc models.Location) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventLocationCreated,
		ActorID:        &actorID,
		OrganizationID: &loc.OrganizationID,
		IP:             ip,
		Success:        true,
		Details:        map[string]string{"location_id": loc.ID.Hex(), "name": loc.Name},
	})
}
