// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/timeclock/internal/app/store/audit"
)

// listItem is a single audit event as returned to admins.
type listItem struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Category   string            `json:"category"`
	EventType  string            `json:"event_type"`
	ActorName  string            `json:"actor_name,omitempty"`  // resolved from ActorID
	TargetName string            `json:"target_name,omitempty"` // resolved from UserID
	IP         string            `json:"ip,omitempty"`
	Success    bool              `json:"success"`
	Reason     string            `json:"failure_reason,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Items      []listItem `json:"items"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int64      `json:"total"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLogout,
	}
	attendanceEvents := []string{
		audit.EventClockIn,
		audit.EventClockInRejected,
		audit.EventClockOut,
	}
	adminEvents := []string{
		audit.EventTemplateSaved,
		audit.EventShiftCreated,
		audit.EventShiftDeleted,
		audit.EventShiftGroupDeleted,
		audit.EventOrgTimeZoneUpdated,
		audit.EventLocationCreated,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAttendance:
		return attendanceEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(attendanceEvents)+len(adminEvents))
		all = append(all, authEvents...)
		all = append(all, attendanceEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}

func knownEventType(category, eventType string) bool {
	for _, et := range eventTypesForCategory(category) {
		if et == eventType {
			return true
		}
	}
	return false
}
