package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SessionService manages server-side login sessions.
type SessionService struct {
	sessions store.SessionStore
	users    store.UserStore
	lifetime time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionService creates a SessionService whose sessions last lifetime.
func NewSessionService(
	sessions store.SessionStore,
	users store.UserStore,
	lifetime time.Duration,
	logger *slog.Logger,
) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		sessions: sessions,
		users:    users,
		lifetime: lifetime,
		now:      time.Now,
		logger:   logger.With("component", "session_service"),
	}
}

// Start creates a session for user.
func (s *SessionService) Start(ctx context.Context, user *domain.User) (*store.Session, error) {
	if s == nil || s.sessions == nil {
		return nil, ErrSessionsDisabled
	}

	id, err := auth.NewSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &store.Session{
		ID:        id,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("session started", "user_id", user.ID)
	return session, nil
}

// Resolve returns the user behind an unexpired session id.
// Returns store.ErrSessionNotFound when the session is missing, expired, or
// belongs to a user that no longer exists.
func (s *SessionService) Resolve(ctx context.Context, id string) (*domain.User, error) {
	if s == nil || s.sessions == nil {
		return nil, ErrSessionsDisabled
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, store.ErrSessionNotFound
		}
		return nil, err
	}
	return user, nil
}

// End deletes the session.
func (s *SessionService) End(ctx context.Context, id string) error {
	if s == nil || s.sessions == nil {
		return ErrSessionsDisabled
	}
	return s.sessions.Delete(ctx, id)
}

// PurgeExpired removes expired sessions.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.sessions == nil {
		return 0, ErrSessionsDisabled
	}
	return s.sessions.DeleteExpired(ctx, s.now().UTC())
}

// RunJanitor purges expired sessions every interval until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval time.Duration) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("failed to purge expired sessions", "error", err)
			}
		}
	}
}
