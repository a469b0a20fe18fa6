package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/policy"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the data a client submits to create an account.
type RegisterInput struct {
	Username string
	Password string
	// Role is required; admin is honoured only for staff callers.
	Role domain.Role
}

// UserService provides registration and credential checks.
type UserService interface {
	// Register creates an account. Staff is granted only when the input asks
	// for the admin role and caller is an authenticated staff user; any other
	// request for admin silently yields a regular account. caller may be nil.
	Register(ctx context.Context, input RegisterInput, caller *domain.Caller) (*domain.User, error)

	// Authenticate returns the user whose username and password match.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	db        store.TxBeginner
	logger    *slog.Logger
}

// NewUserService creates a new UserService. When db is nil, registration
// writes through userStore without opening a transaction.
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db store.TxBeginner,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.Register
func (s *UserServiceImpl) Register(
	ctx context.Context,
	input RegisterInput,
	caller *domain.Caller,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	role := input.Role
	if role == "" {
		return nil, domain.NewValidationError("role", "is required", nil)
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", fmt.Sprintf("%q is not a valid choice", role), nil)
	}

	user, err := domain.NewUser(input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	user.IsStaff = policy.GrantStaff(role, caller)
	if role == domain.RoleAdmin && !user.IsStaff {
		log.Info("admin role requested without staff caller, registering regular user",
			"username", user.Username)
	}

	create := func(ctx context.Context, users store.UserStore) error {
		return users.Create(ctx, user)
	}
	if s.db == nil {
		err = create(ctx, s.userStore)
	} else {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return create(ctx, s.userStore.WithTx(tx))
		})
	}
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("attempted to register existing username", "username", user.Username)
			return nil, domain.NewValidationError("username", "a user with that username already exists", err)
		}
		if _, ok := domain.AsValidationError(err); ok {
			return nil, err
		}
		log.Error("failed to save user", "error", err, "username", user.Username)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		"user_id", user.ID,
		"is_staff", user.IsStaff)
	return user, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming runs one password comparison against a throwaway hash so
// unknown usernames cost about as much as wrong passwords.
func (s *UserServiceImpl) equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		if err == nil {
			dummyHash = string(hash)
		}
	})
	_ = s.verifier.Compare(dummyHash, password)
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.equalizeTiming(password)
			log.Debug("login attempt for unknown username")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login attempt with wrong password", "user_id", user.ID)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to compare password", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}
