package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory, applying scopes the way
// the PostgreSQL store does.
type MockTaskStore struct {
	CreateFn func(ctx context.Context, task *domain.Task) error
	GetFn    func(ctx context.Context, id uuid.UUID, scope store.TaskScope) (*domain.Task, error)
	ListFn   func(ctx context.Context, scope store.TaskScope, filter domain.TaskFilter) ([]*domain.Task, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, scope store.TaskScope, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn func(ctx context.Context, id uuid.UUID, scope store.TaskScope) error

	// Now stamps updates; defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new empty mock store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
		Now:   time.Now,
	}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

// Get implements store.TaskStore.
func (m *MockTaskStore) Get(ctx context.Context, id uuid.UUID, scope store.TaskScope) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id, scope)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || !scope.Allows(task.UserID) {
		return nil, store.ErrTaskNotFound
	}
	found := *task
	return &found, nil
}

// List implements store.TaskStore.
func (m *MockTaskStore) List(
	ctx context.Context,
	scope store.TaskScope,
	filter domain.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]*domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if !scope.Allows(task.UserID) {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		found := *task
		tasks = append(tasks, &found)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
	return tasks, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	scope store.TaskScope,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, scope, patch)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || !scope.Allows(task.UserID) {
		return nil, store.ErrTaskNotFound
	}
	patch.Apply(task, m.Now())
	updated := *task
	return &updated, nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID, scope store.TaskScope) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, scope)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || !scope.Allows(task.UserID) {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// WithTx returns the same mock.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

// Count returns the number of stored tasks.
func (m *MockTaskStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
