package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("valid task", func(t *testing.T) {
		task, err := NewTask(owner, " Test Task ", "Test Description", false)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, owner, task.UserID)
		assert.Equal(t, "Test Task", task.Title)
		assert.Equal(t, "Test Description", task.Description)
		assert.False(t, task.Completed)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := NewTask(owner, "  ", "", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "title", ve.Field)
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := NewTask(owner, strings.Repeat("t", MaxTitleLength+1), "", false)
		require.Error(t, err)
	})

	t.Run("length is measured after trimming", func(t *testing.T) {
		padded := strings.Repeat("t", MaxTitleLength-5) + strings.Repeat(" ", 10)
		task, err := NewTask(owner, padded, "", false)
		require.NoError(t, err)
		assert.Len(t, task.Title, MaxTitleLength-5)
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewTask(uuid.Nil, "title", "", false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidID))
	})
}

func TestTaskPatch(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	newTask := func() *Task {
		return &Task{
			ID:          uuid.New(),
			UserID:      uuid.New(),
			Title:       "original",
			Description: "desc",
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}

	t.Run("partial patch", func(t *testing.T) {
		task := newTask()
		done := true
		patch := TaskPatch{Completed: &done}
		require.NoError(t, patch.Validate())
		assert.False(t, patch.Empty())

		patch.Apply(task, later)
		assert.True(t, task.Completed)
		assert.Equal(t, "original", task.Title)
		assert.Equal(t, "desc", task.Description)
		assert.Equal(t, created, task.CreatedAt)
		assert.Equal(t, later, task.UpdatedAt)
	})

	t.Run("title patch is trimmed", func(t *testing.T) {
		task := newTask()
		title := "  renamed  "
		TaskPatch{Title: &title}.Apply(task, later)
		assert.Equal(t, "renamed", task.Title)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		blank := " "
		err := TaskPatch{Title: &blank}.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("padded title within limit", func(t *testing.T) {
		padded := strings.Repeat("é", MaxTitleLength) + "   "
		require.NoError(t, TaskPatch{Title: &padded}.Validate())
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, TaskPatch{}.Empty())
	})
}
