package models

import (
	"strings"
	"time"
)

// Role gates which commands and backend endpoints are reachable.
type Role string

const (
	RoleUser  Role = "USER"
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// Normalize maps legacy lowercase variants ("admin") to their canonical form.
func (r Role) Normalize() Role {
	return Role(strings.ToUpper(strings.TrimSpace(string(r))))
}

// Valid reports whether r (after normalization) is a known role.
func (r Role) Valid() bool {
	switch r.Normalize() {
	case RoleUser, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s).Normalize()
	return r, r.Valid()
}

// User is the cached session entity mirrored from GET /auth/profile.
// The server copy is authoritative; the local one is advisory only.
type User struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          Role      `json:"role"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Clone returns a copy so callers cannot mutate shared session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
