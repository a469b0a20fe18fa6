package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskColumns = "id, user_id, title, description, completed, created_at, updated_at"

// ownerPredicate restricts a statement to the scope passed as $2.
// A NULL owner means the scope is unrestricted.
const ownerPredicate = "($2::uuid IS NULL OR user_id = $2::uuid)"

// PostgresTaskStore implements store.TaskStore. Scope checks are part of the
// same statement that reads or writes the row.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

// ownerArg converts a scope into the $2 parameter of ownerPredicate.
func ownerArg(scope store.TaskScope) any {
	if scope.OwnerID == nil {
		return nil
	}
	return scope.OwnerID.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// Get implements store.TaskStore.Get
func (s *PostgresTaskStore) Get(ctx context.Context, id uuid.UUID, scope store.TaskScope) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND ` + ownerPredicate

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerArg(scope)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found in scope", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	scope store.TaskScope,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The owner stays at $2 so ownerPredicate can be shared.
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE ($1::boolean IS NULL OR completed = $1::boolean) AND ` + ownerPredicate + `
		ORDER BY created_at, id
	`

	var completed any
	if filter.Completed != nil {
		completed = *filter.Completed
	}

	rows, err := s.db.QueryContext(ctx, query, completed, ownerArg(scope))
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("tasks listed",
		slog.Int("count", len(tasks)),
		slog.Bool("all_users", scope.Unrestricted()))
	return tasks, nil
}

// Update implements store.TaskStore.Update
// Fields absent from the patch keep their stored values.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	scope store.TaskScope,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var title, description, completed any
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Completed != nil {
		completed = *patch.Completed
	}

	query := `
		UPDATE tasks
		SET title = COALESCE($3::text, title),
			description = COALESCE($4::text, description),
			completed = COALESCE($5::boolean, completed),
			updated_at = $6
		WHERE id = $1 AND ` + ownerPredicate + `
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		id,
		ownerArg(scope),
		title,
		description,
		completed,
		s.now().UTC(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID, scope store.TaskScope) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND ` + ownerPredicate

	result, err := s.db.ExecContext(ctx, query, id, ownerArg(scope))
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
		}
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}
