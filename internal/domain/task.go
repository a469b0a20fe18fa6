package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the longest accepted task title.
const MaxTitleLength = 255

// Task is a to-do item owned by exactly one user.
// UserID is fixed at creation; nothing in the system reassigns it.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a task owned by userID with fresh id and timestamps.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.UserID == uuid.Nil {
		return NewValidationError("user", "cannot be empty", ErrInvalidID)
	}
	return validateTitle(t.Title)
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("title", "is required", nil)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", "must be at most 255 characters", nil)
	}
	return nil
}

// TaskPatch lists the client-mutable fields of a task. Nil fields are left
// unchanged. Owner and timestamps are deliberately absent.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Validate checks the fields the patch would write.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		return validateTitle(*p.Title)
	}
	return nil
}

// Apply writes the patch onto t and bumps UpdatedAt to now.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now.UTC()
}

// TaskFilter narrows a task listing. Nil fields do not filter.
type TaskFilter struct {
	Completed *bool
}
