package models

import "time"

// Role is the authorization hint carried in the token payload. It selects
// which views render client-side; the gateway re-checks it on every
// protected endpoint, so a wrong Role here can never grant access.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Claims represents the claims extracted from a session token. They are the
// result of an unverified decode and are display hints only: never treat a
// field here as authoritative for anything the gateway does not re-check.
type Claims struct {
	ID    string `json:"id"`    // User ID assigned by the gateway
	Name  string `json:"name"`  // User display name
	Email string `json:"email"` // User email
	Role  Role   `json:"role"`  // student, instructor or admin
	Iat   int64  `json:"iat"`   // Issued at
	Exp   int64  `json:"exp"`   // Expiration time
}

// IssuedAt returns the iat claim as a time, zero if absent.
func (c Claims) IssuedAt() time.Time {
	if c.Iat == 0 {
		return time.Time{}
	}
	return time.Unix(c.Iat, 0)
}

// ExpiresAt returns the exp claim as a time, zero if absent. Expiry is not
// enforced client-side; the gateway rejects stale tokens on use.
func (c Claims) ExpiresAt() time.Time {
	if c.Exp == 0 {
		return time.Time{}
	}
	return time.Unix(c.Exp, 0)
}
