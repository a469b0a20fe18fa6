package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskScope(t *testing.T) {
	t.Parallel()

	user := &domain.Caller{UserID: uuid.New()}
	staff := &domain.Caller{UserID: uuid.New(), IsStaff: true}

	_, ok := TaskScope(nil)
	assert.False(t, ok)

	scope, ok := TaskScope(user)
	require.True(t, ok)
	require.NotNil(t, scope.OwnerID)
	assert.Equal(t, user.UserID, *scope.OwnerID)

	scope, ok = TaskScope(staff)
	require.True(t, ok)
	assert.True(t, scope.Unrestricted())
}

func TestGrantStaff(t *testing.T) {
	t.Parallel()

	staff := &domain.Caller{UserID: uuid.New(), IsStaff: true}
	user := &domain.Caller{UserID: uuid.New()}

	tests := []struct {
		name      string
		requested domain.Role
		caller    *domain.Caller
		want      bool
	}{
		{name: "admin by staff", requested: domain.RoleAdmin, caller: staff, want: true},
		{name: "admin by anonymous", requested: domain.RoleAdmin, caller: nil, want: false},
		{name: "admin by regular user", requested: domain.RoleAdmin, caller: user, want: false},
		{name: "basic by staff", requested: domain.RoleBasicUser, caller: staff, want: false},
		{name: "basic by anonymous", requested: domain.RoleBasicUser, caller: nil, want: false},
		{name: "empty role", requested: "", caller: staff, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GrantStaff(tc.requested, tc.caller))
		})
	}
}
