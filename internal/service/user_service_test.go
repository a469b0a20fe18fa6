package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(users *mocks.MockUserStore) *UserServiceImpl {
	return NewUserService(users, auth.NewBcryptVerifier(), nil, nil)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	staff := &domain.Caller{UserID: uuid.New(), IsStaff: true}
	regular := &domain.Caller{UserID: uuid.New()}

	tests := []struct {
		name      string
		role      domain.Role
		caller    *domain.Caller
		wantStaff bool
	}{
		{name: "basic user", role: domain.RoleBasicUser, caller: nil, wantStaff: false},
		{name: "admin by anonymous is downgraded", role: domain.RoleAdmin, caller: nil, wantStaff: false},
		{name: "admin by regular user is downgraded", role: domain.RoleAdmin, caller: regular, wantStaff: false},
		{name: "admin by staff", role: domain.RoleAdmin, caller: staff, wantStaff: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			users := mocks.NewMockUserStore()
			svc := newUserService(users)

			user, err := svc.Register(context.Background(), RegisterInput{
				Username: "shiv",
				Password: "saxena@kk",
				Role:     tc.role,
			}, tc.caller)
			require.NoError(t, err)
			assert.Equal(t, "shiv", user.Username)
			assert.Equal(t, tc.wantStaff, user.IsStaff)
			assert.Empty(t, user.Password)

			stored, err := users.GetByUsername(context.Background(), "shiv")
			require.NoError(t, err)
			assert.Equal(t, tc.wantStaff, stored.IsStaff)
		})
	}
}

func TestRegisterErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		users := mocks.NewMockUserStore()
		_, err := newUserService(users).Register(context.Background(), RegisterInput{
			Username: "shiv", Password: "pw", Role: "superuser",
		}, nil)

		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "role", ve.Field)
		assert.Equal(t, 0, users.Count())
	})

	t.Run("missing role", func(t *testing.T) {
		t.Parallel()
		users := mocks.NewMockUserStore()
		_, err := newUserService(users).Register(context.Background(), RegisterInput{
			Username: "shiv", Password: "saxena@kk",
		}, nil)

		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "role", ve.Field)
		assert.Equal(t, 0, users.Count())
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()
		_, err := newUserService(mocks.NewMockUserStore()).Register(context.Background(), RegisterInput{
			Username: "shiv", Role: domain.RoleBasicUser,
		}, nil)

		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "password", ve.Field)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()
		svc := newUserService(mocks.NewMockUserStore())
		input := RegisterInput{Username: "shiv", Password: "saxena@kk", Role: domain.RoleBasicUser}
		_, err := svc.Register(context.Background(), input, nil)
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), input, nil)
		ve, ok := domain.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "username", ve.Field)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		users := mocks.NewMockUserStore()
		dbErr := errors.New("connection reset")
		users.CreateFn = func(context.Context, *domain.User) error { return dbErr }

		_, err := newUserService(users).Register(context.Background(), RegisterInput{
			Username: "shiv", Password: "saxena@kk", Role: domain.RoleBasicUser,
		}, nil)
		assert.ErrorIs(t, err, dbErr)
		_, isValidation := domain.AsValidationError(err)
		assert.False(t, isValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newUserService(users)
	registered, err := svc.Register(context.Background(), RegisterInput{
		Username: "shiv", Password: "saxena@kk", Role: domain.RoleBasicUser,
	}, nil)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		user, err := svc.Authenticate(context.Background(), "shiv", "saxena@kk")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(context.Background(), "shiv", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Authenticate(context.Background(), "nobody", "saxena@kk")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("verifier failure is not a credential error", func(t *testing.T) {
		t.Parallel()
		broken := NewUserService(users, &mocks.MockPasswordVerifier{
			CompareFn: func(string, string) error { return errors.New("bad hash") },
		}, nil, nil)
		_, err := broken.Authenticate(context.Background(), "shiv", "saxena@kk")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	svc := newUserService(users)
	registered, err := svc.Register(context.Background(), RegisterInput{
		Username: "shiv", Password: "saxena@kk", Role: domain.RoleBasicUser,
	}, nil)
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "shiv", user.Username)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
