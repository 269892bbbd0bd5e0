package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const virtualPrefix = "virtual-"

// ErrVirtualShift is returned when an id names a template occurrence rather than a
// stored shift. Virtual shifts cannot be deleted or edited; disable the template day
// or add a real shift on that day instead.
var ErrVirtualShift = errors.New("virtual shifts cannot be deleted or modified")

// ErrInvalidShiftID is returned for ids that are neither stored nor virtual shifts.
var ErrInvalidShiftID = errors.New("invalid shift id")

// EffectiveShift is either a Real stored shift or a Virtual occurrence of a weekly
// template slot. The set of implementations is closed to this package.
type EffectiveShift interface {
	ID() string
	EmployeeID() primitive.ObjectID
	EmployeeName() string
	LocationID() primitive.ObjectID
	LocationName() string
	Start() time.Time
	End() time.Time
	IsVirtual() bool

	effective()
}

// Real is a stored one-off shift.
type Real struct {
	shift models.Shift
}

// NewReal wraps a stored shift.
func NewReal(s models.Shift) Real { return Real{shift: s} }

// Shift returns the stored shift. Only Real exposes an ObjectID that delete and
// update paths can accept.
func (r Real) Shift() models.Shift { return r.shift }
func (r Real) ID() string { return r.shift.ID.Hex() }
func (r Real) EmployeeID() primitive.ObjectID { return r.shift.EmployeeID }
func (r Real) EmployeeName() string { return r.shift.EmployeeName }
func (r Real) LocationID() primitive.ObjectID { return r.shift.LocationID }
func (r Real) LocationName() string { return r.shift.LocationName }
func (r Real) Start() time.Time { return r.shift.Start }
func (r Real) End() time.Time { return r.shift.End }
func (r Real) IsVirtual() bool { return false }
func (r Real) Cancelled() bool { return r.shift.Status == models.ShiftCancelled }
func (Real) effective() {}

// Virtual is one template slot materialized for one local calendar date.
type Virtual struct {
	employeeID   primitive.ObjectID
	employeeName string
	slot         models.ShiftSlot
	date         string
	start        time.Time
	end          time.Time
}

// VirtualID is the synthetic id of a template occurrence.
func VirtualID(employeeID primitive.ObjectID, date string) string {
	return virtualPrefix + employeeID.Hex() + "-" + date
}

func (v Virtual) ID() string { return VirtualID(v.employeeID, v.date) }
func (v Virtual) EmployeeID() primitive.ObjectID { return v.employeeID }
func (v Virtual) EmployeeName() string { return v.employeeName }
func (v Virtual) LocationID() primitive.ObjectID { return v.slot.LocationID }
func (v Virtual) LocationName() string { return v.slot.LocationName }
func (v Virtual) Start() time.Time { return v.start }
func (v Virtual) End() time.Time { return v.end }
func (v Virtual) IsVirtual() bool { return true }

// Date is the local calendar date the occurrence belongs to.
func (v Virtual) Date() string { return v.date }
func (Virtual) effective() {}

// newVirtual builds the occurrence of slot on date. Slots whose end is not after their
// start are kept as they are; the occurrence simply has a zero or negative length.
func newVirtual(t models.WeeklyTemplate, slot models.ShiftSlot, date string, loc *time.Location) (Virtual, error) {
	start, err := timezones.ZonedInstant(loc, date, slot.Start)
	if err != nil {
		return Virtual{}, err
	}
	end, err := timezones.ZonedInstant(loc, date, slot.End)
	if err != nil {
		return Virtual{}, err
	}
	return Virtual{
		employeeID:   t.EmployeeID,
		employeeName: t.EmployeeName,
		slot:         slot,
		date:         date,
		start:        start,
		end:          end,
	}, nil
}

// ParseShiftRef turns a client-supplied shift id into a stored shift id. Virtual ids
// yield ErrVirtualShift.
func ParseShiftRef(id string) (primitive.ObjectID, error) {
	if strings.HasPrefix(id, virtualPrefix) {
		return primitive.NilObjectID, ErrVirtualShift
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidShiftID
	}
	return oid, nil
}

// View is the JSON shape of an effective shift for calendars.
type View struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employeeId"`
	EmployeeName      string    `json:"employeeName"`
	LocationID        string    `json:"locationId"`
	LocationName      string    `json:"locationName"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Date              string    `json:"date"`
	Status            string    `json:"status"`
	RecurrenceGroupID string    `json:"recurrenceGroupId,omitempty"`
	IsVirtual         bool      `json:"isVirtual"`
}

// ToView renders s with its local date in loc.
func ToView(s EffectiveShift, loc *time.Location) View {
	v := View{
		ID:           s.ID(),
		EmployeeID:   s.EmployeeID().Hex(),
		EmployeeName: s.EmployeeName(),
		LocationID:   s.LocationID().Hex(),
		LocationName: s.LocationName(),
		Start:        s.Start(),
		End:          s.End(),
		Date:         timezones.LocalDate(loc, s.Start()),
		Status:       models.ShiftScheduled,
		IsVirtual:    s.IsVirtual(),
	}
	if r, ok := s.(Real); ok {
		v.Status = r.shift.Status
		v.RecurrenceGroupID = r.shift.RecurrenceGroupID
	}
	return v
}
