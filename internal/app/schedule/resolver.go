// Package schedule merges one-off shifts with recurring weekly templates into the
// effective schedule used for calendars and clock-in decisions.
package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/timeclock/internal/app/system/metrics"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShiftSource lists stored shifts whose start falls in [start, end].
type ShiftSource interface {
	ListInRange(ctx context.Context, orgID primitive.ObjectID, employeeID *primitive.ObjectID, start, end time.Time) ([]models.Shift, error)
}

// TemplateSource loads weekly templates. GetForEmployee returns mongo.ErrNoDocuments
// when the employee has none.
type TemplateSource interface {
	GetForEmployee(ctx context.Context, orgID, employeeID primitive.ObjectID) (models.WeeklyTemplate, error)
	ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.WeeklyTemplate, error)
}

// Query selects the effective shifts of an organization, or of one employee when
// EmployeeID is set, with start instants in [Start, End]. Location decides calendar
// days; nil means UTC.
type Query struct {
	OrganizationID primitive.ObjectID
	EmployeeID     *primitive.ObjectID
	Start          time.Time
	End            time.Time
	Location       *time.Location
}

// Resolver computes effective schedules. It only reads and is safe for concurrent use.
type Resolver struct {
	shifts    ShiftSource
	templates TemplateSource
	logger    *zap.Logger
}

func NewResolver(shifts ShiftSource, templates TemplateSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{shifts: shifts, templates: templates, logger: logger}
}

// EffectiveShifts returns real shifts in range plus virtual template occurrences for
// every local day in range, sorted by start. A real shift on an employee's local day
// suppresses that day's virtual occurrence regardless of overlap; real shifts never
// suppress each other.
func (r *Resolver) EffectiveShifts(ctx context.Context, q Query) ([]EffectiveShift, error) {
	began := time.Now()
	defer func() { metrics.ResolveDuration.Observe(time.Since(began).Seconds()) }()

	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}

	var (
		stored    []models.Shift
		templates []models.WeeklyTemplate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stored, err = r.shifts.ListInRange(gctx, q.OrganizationID, q.EmployeeID, q.Start, q.End)
		return err
	})
	g.Go(func() error {
		if q.EmployeeID == nil {
			var err error
			templates, err = r.templates.ListByOrg(gctx, q.OrganizationID)
			return err
		}
		t, err := r.templates.GetForEmployee(gctx, q.OrganizationID, *q.EmployeeID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		if err != nil {
			return err
		}
		templates = []models.WeeklyTemplate{t}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]EffectiveShift, 0, len(stored))
	covered := make(map[dayKey]struct{}, len(stored))
	for _, s := range stored {
		out = append(out, NewReal(s))
		covered[dayKey{s.EmployeeID, timezones.LocalDate(loc, s.Start)}] = struct{}{}
	}

	synthesized := 0
	for _, date := range timezones.Dates(loc, q.Start, q.End) {
		weekday, err := timezones.Weekday(date)
		if err != nil {
			return nil, err
		}
		for _, t := range templates {
			if q.EmployeeID != nil && t.EmployeeID != *q.EmployeeID {
				continue
			}
			slot, ok := t.Slot(weekday)
			if !ok {
				continue
			}
			if _, ok := covered[dayKey{t.EmployeeID, date}]; ok {
				continue
			}
			v, err := newVirtual(t, slot, date, loc)
			if err != nil {
				// A malformed slot should not hide the rest of the schedule.
				r.logger.Warn("skipping malformed template slot",
					zap.String("employee_id", t.EmployeeID.Hex()),
					zap.String("weekday", weekday),
					zap.Error(err))
				continue
			}
			if !v.end.After(v.start) {
				r.logger.Debug("template slot does not end after it starts",
					zap.String("employee_id", t.EmployeeID.Hex()),
					zap.String("date", date),
					zap.String("start", slot.Start),
					zap.String("end", slot.End))
			}
			out = append(out, v)
			synthesized++
		}
	}
	metrics.VirtualShifts.Add(float64(synthesized))

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out, nil
}

type dayKey struct {
	employee primitive.ObjectID
	date     string
}
