package timezones

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts for local calendar values.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DayWindow returns the instants bounding the local calendar day that contains ref:
// 00:00:00.000 through 23:59:59.999 local time in loc.
//
// The end is derived from the next local midnight, so 23- and 25-hour days around
// daylight-saving transitions come out right.
func DayWindow(loc *time.Location, ref time.Time) (start, end time.Time) {
	local := ref.In(loc)
	y, m, d := local.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end = time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return start, end
}

// LocalTimeOf returns the local "HH:mm" and lowercase weekday name of t in loc.
func LocalTimeOf(loc *time.Location, t time.Time) (hhmm, weekday string) {
	local := t.In(loc)
	return local.Format(TimeLayout), strings.ToLower(local.Weekday().String())
}

// LocalDate returns the local calendar date of t in loc as "YYYY-MM-DD".
func LocalDate(loc *time.Location, t time.Time) string {
	return t.In(loc).Format(DateLayout)
}

// Weekday returns the lowercase weekday name of a "YYYY-MM-DD" date.
func Weekday(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return strings.ToLower(d.Weekday().String()), nil
}

// ParseHHMM parses "HH:mm" into minutes after midnight.
func ParseHHMM(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:mm", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hh*60 + mm, nil
}

// ZonedInstant converts a naive local date and "HH:mm" time into an instant, using
// the offset in effect in loc on that date (not the offset of any reference instant).
func ZonedInstant(loc *time.Location, date, hhmm string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	mins, err := ParseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, mins/60, mins%60, 0, 0, loc), nil
}

// Dates lists every local calendar date from start to end inclusive, in loc.
// It returns nil when end precedes start.
func Dates(loc *time.Location, start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	s := start.In(loc)
	last := LocalDate(loc, end)
	y, m, d := s.Date()

	var out []string
	for i := 0; ; i++ {
		// Noon avoids landing on a skipped or repeated midnight.
		day := time.Date(y, m, d+i, 12, 0, 0, 0, loc).Format(DateLayout)
		out = append(out, day)
		if day >= last {
			return out
		}
	}
}
