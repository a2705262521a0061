package domain

import (
	"strings"
	"time"
)

// Role is the single authorization axis for every operation.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// ParseRole validates a role value, case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleAgent:
		return RoleAgent, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// IsStaff reports whether the role may triage tickets it does not own.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is the domain model for every account: requesters, agents, admins.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity threaded explicitly into service
// calls.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// ActorFromUser builds the actor value for a loaded user.
func ActorFromUser(u *User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
