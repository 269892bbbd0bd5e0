// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User is an admin or an employee profile.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName       string              `bson:"full_name" json:"full_name"`
	FullNameCI     string              `bson:"full_name_ci" json:"-"`
	Email          string              `bson:"email" json:"email"`
	AuthMethod     string              `bson:"auth_method,omitempty" json:"auth_method,omitempty"`
	Role           string              `bson:"role" json:"role"` // admin | employee
	Status         string              `bson:"status,omitempty" json:"status,omitempty"`
	PayRate        float64             `bson:"pay_rate,omitempty" json:"pay_rate,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
