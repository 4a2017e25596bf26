package domain

import (
	"fmt"
	"time"
)

// Role is the authority level of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Authority returns the permission string granted by the role.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a stored role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is the durable account record. PasswordHash never leaves the core.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity projects the account into a request-scoped principal.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
