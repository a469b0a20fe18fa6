package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxUsernameLength is the longest accepted username.
	MaxUsernameLength = 150

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// Role is the privilege level requested at registration.
type Role string

// Roles accepted by registration.
const (
	RoleBasicUser Role = "basic_user"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBasicUser || r == RoleAdmin
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// User represents a registered account.
// The plaintext password is only held transiently between registration and
// hashing; neither it nor the hash is ever serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	IsStaff        bool      `json:"is_staff"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new non-staff User with the given username and password.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if u.Username == "" {
		return NewValidationError("username", "is required", nil)
	}
	if utf8.RuneCountInString(u.Username) > MaxUsernameLength {
		return NewValidationError("username", "must be at most 150 characters", nil)
	}
	if !usernamePattern.MatchString(u.Username) {
		return NewValidationError("username", "may contain only letters, digits and @/./+/-/_", nil)
	}

	// Existing users loaded from the store carry only the hash.
	if u.Password == "" && u.HashedPassword == "" {
		return NewValidationError("password", "is required", nil)
	}
	if len(u.Password) > MaxPasswordLength {
		return NewValidationError("password", "must be at most 72 bytes", nil)
	}

	return nil
}
