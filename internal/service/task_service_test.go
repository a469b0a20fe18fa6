package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	svc   *TaskServiceImpl
	tasks *mocks.MockTaskStore
	alice *domain.Caller
	bob   *domain.Caller
	staff *domain.Caller
}

func newTaskFixture() taskFixture {
	tasks := mocks.NewMockTaskStore()
	return taskFixture{
		svc:   NewTaskService(tasks, nil),
		tasks: tasks,
		alice: &domain.Caller{UserID: uuid.New()},
		bob:   &domain.Caller{UserID: uuid.New()},
		staff: &domain.Caller{UserID: uuid.New(), IsStaff: true},
	}
}

func TestTaskServiceVisibility(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	ctx := context.Background()

	aliceTask, err := f.svc.Create(ctx, f.alice, TaskInput{Title: "alice task"})
	require.NoError(t, err)
	assert.Equal(t, f.alice.UserID, aliceTask.UserID)
	bobTask, err := f.svc.Create(ctx, f.bob, TaskInput{Title: "bob task", Completed: true})
	require.NoError(t, err)

	aliceList, err := f.svc.List(ctx, f.alice, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, aliceTask.ID, aliceList[0].ID)

	staffList, err := f.svc.List(ctx, f.staff, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, staffList, 2)

	_, err = f.svc.Get(ctx, f.alice, bobTask.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	got, err := f.svc.Get(ctx, f.staff, bobTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob task", got.Title)

	title := "stolen"
	_, err = f.svc.Update(ctx, f.alice, bobTask.ID, domain.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice, bobTask.ID), store.ErrTaskNotFound)
	assert.Equal(t, 2, f.tasks.Count())
}

func TestTaskServiceAnonymous(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	ctx := context.Background()
	id := uuid.New()

	_, err := f.svc.List(ctx, nil, domain.TaskFilter{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Create(ctx, nil, TaskInput{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Get(ctx, nil, id)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Replace(ctx, nil, id, TaskInput{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.Delete(ctx, nil, id), domain.ErrUnauthorized)
}

func TestTaskServiceReplaceAndUpdate(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, TaskInput{Title: "original", Description: "desc", Completed: true})
	require.NoError(t, err)

	t.Run("patch keeps absent fields", func(t *testing.T) {
		desc := "new desc"
		updated, err := f.svc.Update(ctx, f.alice, task.ID, domain.TaskPatch{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, "original", updated.Title)
		assert.Equal(t, "new desc", updated.Description)
		assert.True(t, updated.Completed)
	})

	t.Run("replace resets omitted fields", func(t *testing.T) {
		replaced, err := f.svc.Replace(ctx, f.alice, task.ID, TaskInput{Title: "replaced"})
		require.NoError(t, err)
		assert.Equal(t, "replaced", replaced.Title)
		assert.Empty(t, replaced.Description)
		assert.False(t, replaced.Completed)
		assert.Equal(t, f.alice.UserID, replaced.UserID)
	})

	t.Run("replace requires a title", func(t *testing.T) {
		_, err := f.svc.Replace(ctx, f.alice, task.ID, TaskInput{})
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "title", ve.Field)
	})

	t.Run("empty patch changes nothing", func(t *testing.T) {
		before, err := f.svc.Get(ctx, f.alice, task.ID)
		require.NoError(t, err)

		after, err := f.svc.Update(ctx, f.alice, task.ID, domain.TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, before, after)

		_, err = f.svc.Update(ctx, f.bob, task.ID, domain.TaskPatch{})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("staff may update any task", func(t *testing.T) {
		done := true
		updated, err := f.svc.Update(ctx, f.staff, task.ID, domain.TaskPatch{Completed: &done})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, f.alice.UserID, updated.UserID, "owner never changes")
	})
}

func TestTaskServiceCreateValidation(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	_, err := f.svc.Create(context.Background(), f.alice, TaskInput{Title: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.tasks.Count())
}

func TestTaskServiceDeleteThenNotFound(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	ctx := context.Background()
	task, err := f.svc.Create(ctx, f.alice, TaskInput{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.alice, task.ID))
	for _, caller := range []*domain.Caller{f.alice, f.bob, f.staff} {
		_, err := f.svc.Get(ctx, caller, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	}
}

func TestTaskServiceWrapsUnexpectedErrors(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	dbErr := errors.New("connection reset")
	f.tasks.GetFn = func(context.Context, uuid.UUID, store.TaskScope) (*domain.Task, error) {
		return nil, dbErr
	}

	_, err := f.svc.Get(context.Background(), f.alice, uuid.New())
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "failed to get task")
}
