package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TimeEntries is an in-memory time entry store. Like the Mongo store it allows at most
// one open entry per (organization, employee); Open and Close are atomic.
type TimeEntries struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]models.TimeEntry

	// FindOpenErr and OpenErr, when set, are returned by FindOpen and Open.
	FindOpenErr error
	OpenErr     error
}

func NewTimeEntries() *TimeEntries {
	return &TimeEntries{entries: make(map[primitive.ObjectID]models.TimeEntry)}
}

func (s *TimeEntries) Open(_ context.Context, e models.TimeEntry) (models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return models.TimeEntry{}, s.OpenErr
	}
	for _, existing := range s.entries {
		if existing.Open && existing.OrganizationID == e.OrganizationID && existing.EmployeeID == e.EmployeeID {
			return models.TimeEntry{}, timeentrystore.ErrOpenEntryExists
		}
	}
	now := time.Now().UTC()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.ClockInAt.IsZero() {
		e.ClockInAt = now
	}
	if e.VerificationFlags == nil {
		e.VerificationFlags = []models.VerificationFlag{}
	}
	e.Open = true
	e.ClockOutAt = nil
	e.CreatedAt = now
	e.UpdatedAt = now
	s.entries[e.ID] = e
	return e, nil
}

func (s *TimeEntries) FindOpen(_ context.Context, orgID, employeeID primitive.ObjectID) (models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FindOpenErr != nil {
		return models.TimeEntry{}, s.FindOpenErr
	}
	for _, e := range s.entries {
		if e.Open && e.OrganizationID == orgID && e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return models.TimeEntry{}, mongo.ErrNoDocuments
}

func (s *TimeEntries) Close(_ context.Context, id primitive.ObjectID, c timeentrystore.Closing) (models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || !e.Open {
		return models.TimeEntry{}, mongo.ErrNoDocuments
	}
	at := c.At
	e.Open = false
	e.ClockOutAt = &at
	e.ClockOutIP = c.IP
	e.ClockOutReason = c.Reason
	if c.Coords != nil {
		e.ClockOutCoords = c.Coords
	}
	e.VerificationFlags = append(e.VerificationFlags, c.Flags...)
	e.UpdatedAt = time.Now().UTC()
	s.entries[id] = e
	return e, nil
}

func (s *TimeEntries) GetByID(_ context.Context, id primitive.ObjectID) (models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return models.TimeEntry{}, mongo.ErrNoDocuments
	}
	return e, nil
}

// All returns every stored entry.
func (s *TimeEntries) All() []models.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TimeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// ListInRange mirrors the Mongo store: entries whose clock-in falls in [start, end], oldest first.
func (s *TimeEntries) ListInRange(_ context.Context, orgID primitive.ObjectID, employeeID *primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TimeEntry
	for _, e := range s.entries {
		if e.OrganizationID != orgID || (employeeID != nil && e.EmployeeID != *employeeID) {
			continue
		}
		if e.ClockInAt.Before(start) || e.ClockInAt.After(end) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockInAt.Before(out[j].ClockInAt) })
	return out, nil
}
