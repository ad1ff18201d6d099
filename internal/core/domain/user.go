package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization roles a profile may carry.
type Role string

const (
	// RoleNone is the zero value: no role resolved (yet) for the identity.
	RoleNone     Role = ""
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ParseRole converts a stored role value into a Role. Anything outside the
// known set is rejected with ErrUnknownRole.
func ParseRole(raw string) (Role, error) {
	switch r := Role(raw); r {
	case RoleAdmin, RoleEmployee:
		return r, nil
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// Identity is an authenticated principal. Credentials live here; everything
// the dashboard displays lives on the Profile with the same ID.
type Identity struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Profile is the per-identity row holding display name and role.
type Profile struct {
	ID        string    `json:"id" bson:"_id"`
	FullName  string    `json:"full_name,omitempty" bson:"full_name,omitempty"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// DisplayName returns the full name, or fallback when none was set.
func (p Profile) DisplayName(fallback string) string {
	if p.FullName == "" {
		return fallback
	}
	return p.FullName
}

// Session is a signed-in identity bound to a revocable session id.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Actor is the caller of a service operation, taken from the settled session.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
