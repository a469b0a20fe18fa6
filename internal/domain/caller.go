package domain

import "github.com/google/uuid"

// Caller is the authenticated identity behind a request.
// A nil *Caller means the request is anonymous.
type Caller struct {
	UserID  uuid.UUID
	IsStaff bool
}

// CallerFromUser returns the identity of u.
func CallerFromUser(u *User) *Caller {
	if u == nil {
		return nil
	}
	return &Caller{UserID: u.ID, IsStaff: u.IsStaff}
}

// IsAuthenticated reports whether c identifies a user.
func (c *Caller) IsAuthenticated() bool {
	return c != nil && c.UserID != uuid.Nil
}
