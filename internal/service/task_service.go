package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/policy"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskInput carries every client-settable task field. It is used for
// creation and for full replacement.
type TaskInput struct {
	Title       string
	Description string
	Completed   bool
}

// TaskService provides task CRUD restricted by the caller's policy scope.
// Every method returns domain.ErrUnauthorized for an anonymous caller and
// store.ErrTaskNotFound for a task outside the caller's scope.
type TaskService interface {
	List(ctx context.Context, caller *domain.Caller, filter domain.TaskFilter) ([]*domain.Task, error)
	Create(ctx context.Context, caller *domain.Caller, input TaskInput) (*domain.Task, error)
	Get(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Task, error)
	// Replace overwrites title, description and completed.
	Replace(ctx context.Context, caller *domain.Caller, id uuid.UUID, input TaskInput) (*domain.Task, error)
	// Update writes only the fields present in patch.
	Update(ctx context.Context, caller *domain.Caller, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, caller *domain.Caller, id uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

var _ TaskService = (*TaskServiceImpl)(nil)

func scopeFor(caller *domain.Caller) (store.TaskScope, error) {
	scope, ok := policy.TaskScope(caller)
	if !ok {
		return store.TaskScope{}, domain.ErrUnauthorized
	}
	return scope, nil
}

// wrap adds context to unexpected errors and passes expected ones through
// so callers can still match them.
func (s *TaskServiceImpl) wrap(ctx context.Context, op string, id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrTaskNotFound) {
		return err
	}
	if _, ok := domain.AsValidationError(err); ok {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed",
		"operation", op,
		"task_id", id,
		"error", err)
	return fmt.Errorf("failed to %s task: %w", op, err)
}

// List implements TaskService.List
func (s *TaskServiceImpl) List(
	ctx context.Context,
	caller *domain.Caller,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	scope, err := scopeFor(caller)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskStore.List(ctx, scope, filter)
	if err != nil {
		return nil, s.wrap(ctx, "list", uuid.Nil, err)
	}
	return tasks, nil
}

// Create implements TaskService.Create. The owner is always the caller.
func (s *TaskServiceImpl) Create(ctx context.Context, caller *domain.Caller, input TaskInput) (*domain.Task, error) {
	if !caller.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}

	task, err := domain.NewTask(caller.UserID, input.Title, input.Description, input.Completed)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, s.wrap(ctx, "create", task.ID, err)
	}
	return task, nil
}

// Get implements TaskService.Get
func (s *TaskServiceImpl) Get(ctx context.Context, caller *domain.Caller, id uuid.UUID) (*domain.Task, error) {
	scope, err := scopeFor(caller)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.Get(ctx, id, scope)
	if err != nil {
		return nil, s.wrap(ctx, "get", id, err)
	}
	return task, nil
}

// Replace implements TaskService.Replace
func (s *TaskServiceImpl) Replace(
	ctx context.Context,
	caller *domain.Caller,
	id uuid.UUID,
	input TaskInput,
) (*domain.Task, error) {
	return s.Update(ctx, caller, id, domain.TaskPatch{
		Title:       &input.Title,
		Description: &input.Description,
		Completed:   &input.Completed,
	})
}

// Update implements TaskService.Update
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	caller *domain.Caller,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	scope, err := scopeFor(caller)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.Get(ctx, caller, id)
	}

	task, err := s.taskStore.Update(ctx, id, scope, patch)
	if err != nil {
		return nil, s.wrap(ctx, "update", id, err)
	}
	return task, nil
}

// Delete implements TaskService.Delete
func (s *TaskServiceImpl) Delete(ctx context.Context, caller *domain.Caller, id uuid.UUID) error {
	scope, err := scopeFor(caller)
	if err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, id, scope); err != nil {
		return s.wrap(ctx, "delete", id, err)
	}
	return nil
}
