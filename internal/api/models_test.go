package api

import (
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskRequestToInput(t *testing.T) {
	input, err := TaskRequest{Title: strPtr("write docs")}.toInput()
	require.NoError(t, err)
	assert.Equal(t, "write docs", input.Title)
	assert.Empty(t, input.Description)
	assert.False(t, input.Completed)

	input, err = TaskRequest{
		Title:       strPtr("ship"),
		Description: strPtr("v1"),
		Completed:   boolPtr(true),
	}.toInput()
	require.NoError(t, err)
	assert.Equal(t, "v1", input.Description)
	assert.True(t, input.Completed)

	_, err = TaskRequest{Description: strPtr("no title")}.toInput()
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "title", ve.Field)
}

func TestTaskRequestToPatch(t *testing.T) {
	patch := TaskRequest{Completed: boolPtr(true)}.toPatch()
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.Description)
	require.NotNil(t, patch.Completed)
	assert.True(t, *patch.Completed)

	assert.True(t, TaskRequest{}.toPatch().Empty())
}

func TestTasksToResponseNeverNil(t *testing.T) {
	out := tasksToResponse(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
