package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskScope(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	other := uuid.New()

	assert.True(t, AllTasks.Unrestricted())
	assert.True(t, AllTasks.Allows(owner))
	assert.True(t, AllTasks.Allows(other))

	scope := OwnedBy(owner)
	assert.False(t, scope.Unrestricted())
	assert.True(t, scope.Allows(owner))
	assert.False(t, scope.Allows(other))
}
