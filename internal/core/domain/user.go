package domain

import "time"

// Role determines a user's privilege scope across the directory.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserStatus represents the lifecycle state of a user record.
//
//	active ──delete──▶ pending_remove ──(external cleanup)──▶ deleted
//
// Only the first transition is performed by this service. Records reach
// deleted through direct store manipulation.
type UserStatus string

const (
	StatusActive        UserStatus = "active"
	StatusPendingRemove UserStatus = "pending_remove"
	StatusDeleted       UserStatus = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPendingRemove, StatusDeleted:
		return true
	}
	return false
}

// CanAuthenticate reports whether a user in this status may sign in.
func (s UserStatus) CanAuthenticate() bool {
	return s == StatusActive
}

// User is a directory entry. PasswordHash is only populated when the store
// was explicitly asked for it and never leaves the process.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized returns a copy of u without the password hash.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// UserPatch carries the optional fields of an update. Nil means "leave as is".
type UserPatch struct {
	Name   *string
	Email  *string
	Role   *Role
	Status *UserStatus
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil && p.Status == nil
}

// ApplyTo writes the supplied patch fields onto u.
func (p UserPatch) ApplyTo(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}
