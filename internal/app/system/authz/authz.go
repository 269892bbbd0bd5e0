// internal/app/system/authz/authz.go
package authz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNoOrganization is returned when the signed-in user belongs to no organization.
	ErrNoOrganization = errors.New("user is not part of an organization")
	// ErrForbidden is returned when an employee asks for someone else's data.
	ErrForbidden = errors.New("not allowed to view another employee")
	// ErrBadEmployeeID is returned for a malformed employee id parameter.
	ErrBadEmployeeID = errors.New("invalid employee id")
)

// Actor is the signed-in user resolved to ids.
type Actor struct {
	UserID primitive.ObjectID
	OrgID  primitive.ObjectID
	Role   string
	Name   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// UserCtx returns the current user as an Actor. ok is false when no user is signed in
// or the session carries a malformed user id; OrgID is zero when the user has no
// organization.
func UserCtx(r *http.Request) (Actor, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return Actor{}, false
	}
	userID, ok := user.UserID()
	if !ok {
		// Malformed user ID in session - fail closed.
		return Actor{}, false
	}
	orgID, _ := user.OrgID()
	return Actor{
		UserID: userID,
		OrgID:  orgID,
		Role:   strings.ToLower(user.Role),
		Name:   user.Name,
	}, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	a, ok := UserCtx(r)
	return ok && a.IsAdmin()
}

// EmployeeScope decides whose data a read may cover. Admins get the requested
// employee, or nil (the whole organization) when none is requested. Employees always
// get themselves and may not name anyone else.
func EmployeeScope(a Actor, requested string) (*primitive.ObjectID, error) {
	if a.OrgID.IsZero() {
		return nil, ErrNoOrganization
	}
	requested = strings.TrimSpace(requested)

	var want *primitive.ObjectID
	if requested != "" {
		oid, err := primitive.ObjectIDFromHex(requested)
		if err != nil {
			return nil, ErrBadEmployeeID
		}
		want = &oid
	}

	if a.IsAdmin() {
		return want, nil
	}
	if want != nil && *want != a.UserID {
		return nil, ErrForbidden
	}
	self := a.UserID
	return &self, nil
}
