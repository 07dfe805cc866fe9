package domain

import (
	"fmt"
	"time"
)

// Role is the permission level of an account. It is a closed set.
type Role string

const (
	// RoleStandard can browse, rate, and keep a saved list.
	RoleStandard Role = "standard"
	// RolePrivileged can additionally manage the catalog and other users.
	RolePrivileged Role = "privileged"
)

// ParseRole converts a stored role string back into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStandard:
		return RoleStandard, nil
	case RolePrivileged:
		return RolePrivileged, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// IsPrivileged reports whether r grants catalog and user administration.
func (r Role) IsPrivileged() bool {
	return r == RolePrivileged
}

// User represents an account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsPrivileged returns true if the user has administrative privileges.
func (u *User) IsPrivileged() bool {
	return u.Role.IsPrivileged()
}

// PublicProfile is the subset of a user that is safe to show to the account owner.
type PublicProfile struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Profile returns the user's public profile.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		Email: u.Email,
		Role:  u.Role,
		Name:  u.Name,
		Phone: u.Phone,
	}
}
