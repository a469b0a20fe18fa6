package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskScope restricts which task rows an operation may touch.
// The zero value means all rows.
type TaskScope struct {
	// OwnerID, when non-nil, limits the operation to tasks owned by that user.
	OwnerID *uuid.UUID
}

// AllTasks is the unrestricted scope.
var AllTasks = TaskScope{}

// OwnedBy returns a scope limited to userID's tasks.
func OwnedBy(userID uuid.UUID) TaskScope {
	return TaskScope{OwnerID: &userID}
}

// Unrestricted reports whether s covers every row.
func (s TaskScope) Unrestricted() bool {
	return s.OwnerID == nil
}

// Allows reports whether a task owned by ownerID falls inside s.
func (s TaskScope) Allows(ownerID uuid.UUID) bool {
	return s.OwnerID == nil || *s.OwnerID == ownerID
}

// TaskStore defines the interface for task persistence.
// Every read and mutation takes a TaskScope which implementations apply in the
// same statement that reads or writes the row. A row outside the scope is
// reported exactly like a missing row.
type TaskStore interface {
	// Create saves a new task. The task must already be valid.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// Get retrieves a task by id within scope.
	// Returns ErrTaskNotFound if no such task is visible.
	Get(ctx context.Context, id uuid.UUID, scope TaskScope) (*domain.Task, error)

	// List returns the tasks in scope that match filter, ordered by creation
	// time then id. It never returns a nil slice on success.
	List(ctx context.Context, scope TaskScope, filter domain.TaskFilter) ([]*domain.Task, error)

	// Update writes the patch onto the task within scope, bumping updated_at,
	// and returns the stored result.
	// Returns ErrTaskNotFound if no such task is visible.
	Update(ctx context.Context, id uuid.UUID, scope TaskScope, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task within scope.
	// Returns ErrTaskNotFound if no such task is visible.
	Delete(ctx context.Context, id uuid.UUID, scope TaskScope) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
