package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login record, looked up by its opaque id.
type Session struct {
	ID        string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists login sessions for cookie-based deployments.
type SessionStore interface {
	// Create saves a new session.
	Create(ctx context.Context, session *Session) error

	// Get returns the unexpired session with the given id.
	// Returns ErrSessionNotFound if it does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session expired at now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
