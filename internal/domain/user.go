package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's access role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Status is a user's approval state. Only approved users may use the catalog.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// User is an account row. The catalog only reads it through the identity
// gate; account management itself lives elsewhere.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      Role
	Status    Status
	CreatedAt time.Time
}

// IsApproved reports whether the user may access the catalog.
func (u *User) IsApproved() bool { return u.Status == StatusApproved }
