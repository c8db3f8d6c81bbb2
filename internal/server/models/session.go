package models

import "time"

// Session binds an opaque token to its owner until Expires.
type Session struct {
	Token     string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}
