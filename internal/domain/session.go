package domain

import "time"

// Session binds an opaque cookie token to a user and the role they held at login.
// The role is a snapshot: later changes to the user do not reach an issued session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Identity is the request-scoped result of resolving a session.
// The zero value is the anonymous identity.
type Identity struct {
	UserID    string
	Role      Role
	SessionID string
}

// Identity returns the identity this session grants.
func (s *Session) Identity() Identity {
	return Identity{UserID: s.UserID, Role: s.Role, SessionID: s.ID}
}

// IsAuthenticated reports whether the identity belongs to a signed-in user.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

// IsPrivileged reports whether the identity carries the privileged role.
// An anonymous identity is never privileged.
func (i Identity) IsPrivileged() bool {
	return i.IsAuthenticated() && i.Role.IsPrivileged()
}
