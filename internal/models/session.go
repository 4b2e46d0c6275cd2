package models

import "time"

// Session is the authenticated identity an operation acts on behalf of.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// HasRole reports whether the session user holds one of roles.
func (s *Session) HasRole(roles ...Role) bool {
	if s == nil {
		return false
	}
	return s.User.Role.In(roles...)
}
