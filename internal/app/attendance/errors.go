package attendance

import (
	"errors"
	"net/http"
)

// Kind classifies a clock-in or clock-out failure.
type Kind string

const (
	Unauthorized               Kind = "unauthorized"
	InvalidInput               Kind = "invalid_input"
	NotFound                   Kind = "not_found"
	OrganizationMissing        Kind = "organization_missing"
	OutsideShiftHours          Kind = "outside_shift_hours"
	OutsideOperatingHours      Kind = "outside_operating_hours"
	LocationVerificationFailed Kind = "location_verification_failed"
	AlreadyClockedIn           Kind = "already_clocked_in"
	NoActiveClockIn            Kind = "no_active_clock_in"
	Internal                   Kind = "internal"
)

var titles = map[Kind]string{
	Unauthorized:               "Unauthorized",
	InvalidInput:               "Invalid request",
	NotFound:                   "Not found",
	OrganizationMissing:        "No organization",
	OutsideShiftHours:          "Outside shift hours",
	OutsideOperatingHours:      "Outside operating hours",
	LocationVerificationFailed: "Location verification failed",
	AlreadyClockedIn:           "Already clocked in",
	NoActiveClockIn:            "No active clock-in",
	Internal:                   "Internal error",
}

// Title is the short user-facing label of k.
func (k Kind) Title() string {
	if t, ok := titles[k]; ok {
		return t
	}
	return titles[Internal]
}

// HTTPStatus maps k onto a response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthorized:
		return http.StatusUnauthorized
	case InvalidInput, AlreadyClockedIn, NoActiveClockIn:
		return http.StatusBadRequest
	case OrganizationMissing, OutsideShiftHours, OutsideOperatingHours, LocationVerificationFailed:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Policy reports whether k is an expected rejection rather than a fault.
func (k Kind) Policy() bool {
	switch k {
	case OutsideShiftHours, OutsideOperatingHours, LocationVerificationFailed, AlreadyClockedIn, NoActiveClockIn:
		return true
	}
	return false
}

// Error is the typed failure returned by the gate and the session manager.
// Details is safe to show the user; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func reject(kind Kind, details string) *Error {
	return &Error{Kind: kind, Details: details}
}

func internal(details string, err error) *Error {
	return &Error{Kind: Internal, Details: details, Err: err}
}

// KindOf returns the Kind carried by err, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
