// Package memstore provides in-memory stand-ins for the Mongo stores so the schedule
// and attendance packages can be tested without a database. Not-found lookups return
// mongo.ErrNoDocuments, matching the real stores.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Organizations is an in-memory organization lookup.
type Organizations struct {
	mu   sync.RWMutex
	orgs map[primitive.ObjectID]models.Organization
	Err  error // returned by every lookup when set
}

func NewOrganizations(orgs ...models.Organization) *Organizations {
	s := &Organizations{orgs: make(map[primitive.ObjectID]models.Organization)}
	for _, o := range orgs {
		s.Put(o)
	}
	return s
}

func (s *Organizations) Put(o models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[o.ID] = o
}

func (s *Organizations) GetByID(_ context.Context, id primitive.ObjectID) (models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return models.Organization{}, s.Err
	}
	o, ok := s.orgs[id]
	if !ok {
		return models.Organization{}, mongo.ErrNoDocuments
	}
	return o, nil
}

// Users is an in-memory user lookup.
type Users struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	Err   error
}

func NewUsers(users ...models.User) *Users {
	s := &Users{users: make(map[primitive.ObjectID]models.User)}
	for _, u := range users {
		s.Put(u)
	}
	return s
}

func (s *Users) Put(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Users) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

// Locations is an in-memory location lookup keyed by (organization, id).
type Locations struct {
	mu   sync.RWMutex
	locs map[primitive.ObjectID]models.Location
	Err  error
}

func NewLocations(locs ...models.Location) *Locations {
	s := &Locations{locs: make(map[primitive.ObjectID]models.Location)}
	for _, l := range locs {
		s.Put(l)
	}
	return s
}

func (s *Locations) Put(l models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locs[l.ID] = l
}

func (s *Locations) GetInOrg(_ context.Context, orgID, id primitive.ObjectID) (models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return models.Location{}, s.Err
	}
	l, ok := s.locs[id]
	if !ok || l.OrganizationID != orgID {
		return models.Location{}, mongo.ErrNoDocuments
	}
	return l, nil
}

// Shifts is an in-memory shift store.
type Shifts struct {
	mu     sync.RWMutex
	shifts []models.Shift
	Err    error
}

func NewShifts(shifts ...models.Shift) *Shifts {
	s := &Shifts{}
	for _, sh := range shifts {
		s.Put(sh)
	}
	return s
}

// Put stores sh, assigning an id when it has none.
func (s *Shifts) Put(sh models.Shift) models.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID.IsZero() {
		sh.ID = primitive.NewObjectID()
	}
	if sh.Status == "" {
		sh.Status = models.ShiftScheduled
	}
	s.shifts = append(s.shifts, sh)
	return sh
}

func (s *Shifts) ListInRange(_ context.Context, orgID primitive.ObjectID, employeeID *primitive.ObjectID, start, end time.Time) ([]models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Shift
	for _, sh := range s.shifts {
		if sh.OrganizationID != orgID {
			continue
		}
		if employeeID != nil && sh.EmployeeID != *employeeID {
			continue
		}
		if sh.Start.Before(start) || sh.Start.After(end) {
			continue
		}
		out = append(out, sh)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// Templates is an in-memory weekly template store.
type Templates struct {
	mu        sync.RWMutex
	templates map[primitive.ObjectID]models.WeeklyTemplate // by employee
	Err       error
}

func NewTemplates(ts ...models.WeeklyTemplate) *Templates {
	s := &Templates{templates: make(map[primitive.ObjectID]models.WeeklyTemplate)}
	for _, t := range ts {
		s.Put(t)
	}
	return s
}

func (s *Templates) Put(t models.WeeklyTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.EmployeeID] = t
}

func (s *Templates) GetForEmployee(_ context.Context, orgID, employeeID primitive.ObjectID) (models.WeeklyTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return models.WeeklyTemplate{}, s.Err
	}
	t, ok := s.templates[employeeID]
	if !ok || t.OrganizationID != orgID {
		return models.WeeklyTemplate{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func (s *Templates) ListByOrg(_ context.Context, orgID primitive.ObjectID) ([]models.WeeklyTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.WeeklyTemplate
	for _, t := range s.templates {
		if t.OrganizationID == orgID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out, nil
}
