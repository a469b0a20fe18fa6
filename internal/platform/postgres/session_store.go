package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// PostgresSessionStore implements store.SessionStore.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
		now:    time.Now,
	}
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *store.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Debug("session created", slog.String("user_id", session.UserID.String()))
	return nil
}

// Get implements store.SessionStore.Get
func (s *PostgresSessionStore) Get(ctx context.Context, id string) (*store.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > $2
	`

	var session store.Session
	err := s.db.QueryRowContext(ctx, query, id, s.now().UTC()).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &session, nil
}

// Delete implements store.SessionStore.Delete
func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		log.Error("failed to delete session", slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// DeleteExpired implements store.SessionStore.DeleteExpired
func (s *PostgresSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		log.Error("failed to delete expired sessions", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("expired sessions removed", slog.Int64("count", n))
	}
	return n, nil
}
