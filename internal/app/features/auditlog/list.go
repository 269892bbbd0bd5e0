// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/timeclock/internal/app/store/audit"
	"github.com/dalemusser/timeclock/internal/app/system/authz"
	"github.com/dalemusser/timeclock/internal/app/system/orgutil"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /api/audit: the admin's organization's audit events, newest
// first, filtered by category, event_type, employee_id and a start/end date range
// counted in the organization's zone.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	if actor.OrgID.IsZero() {
		respond.Error(w, http.StatusForbidden, "No organization", "Your account is not part of an organization.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Range(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	startDate := strings.TrimSpace(q.Get("start"))
	endDate := strings.TrimSpace(q.Get("end"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	if category != "" && eventTypesForCategory(category) == nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Unknown category.")
		return
	}
	if eventType != "" && !knownEventType(category, eventType) {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Unknown event type.")
		return
	}

	filter := audit.QueryFilter{
		OrganizationID: &actor.OrgID,
		Category:       category,
		EventType:      eventType,
		Limit:          pageSize,
		Offset:         int64((page - 1) * pageSize),
	}

	if raw := q.Get("employee_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request", "employee_id must be a valid id.")
			return
		}
		filter.UserID = &id
	}

	if startDate != "" || endDate != "" {
		if startDate == "" {
			startDate = endDate
		}
		if endDate == "" {
			endDate = startDate
		}
		_, loc, err := orgutil.Zone(ctx, h.Orgs, actor.OrgID, h.Log)
		if err != nil {
			loc = timezones.ZoneFor(timezones.Default())
		}
		start, end, err := orgutil.DateRange(loc, startDate, endDate)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request", "start and end must be dates in YYYY-MM-DD format.")
			return
		}
		filter.StartTime = &start
		filter.EndTime = &end
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	// Names come from the organization's roster; unknown ids fall back to hex.
	names := make(map[primitive.ObjectID]string)
	if users, err := h.Users.ListByOrg(ctx, actor.OrgID); err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
	} else {
		for _, u := range users {
			names[u.ID] = u.FullName
		}
	}
	name := func(id *primitive.ObjectID) string {
		if id == nil {
			return ""
		}
		if n, ok := names[*id]; ok {
			return n
		}
		return id.Hex()
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			ID:         e.ID.Hex(),
			Timestamp:  e.Timestamp,
			Category:   e.Category,
			EventType:  e.EventType,
			ActorName:  name(e.ActorID),
			TargetName: name(e.UserID),
			IP:         e.IP,
			Success:    e.Success,
			Reason:     e.FailureReason,
			Details:    e.Details,
		})
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}
