package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=basic_user admin"`
}

// LoginRequest defines the payload for both login endpoints.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TaskRequest is the body of task create, replace and update requests.
// Pointer fields distinguish an omitted field from a zero value. Any other
// field a client sends (id, user, timestamps) is ignored.
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// toInput converts the request for create or full replacement. Title is
// required and omitted optional fields take their defaults.
func (req TaskRequest) toInput() (service.TaskInput, error) {
	if req.Title == nil {
		return service.TaskInput{}, domain.NewValidationError("title", "is required", nil)
	}

	input := service.TaskInput{Title: *req.Title}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Completed != nil {
		input.Completed = *req.Completed
	}
	return input, nil
}

func (req TaskRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
}

// TokenPairResponse is returned by a successful token login.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResponse is returned by the token refresh endpoint.
type AccessTokenResponse struct {
	Access string `json:"access"`
}

// UserResponse is returned by registration.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// SessionUserResponse is returned by a successful session login.
type SessionUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

// DetailResponse carries a short status message.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	User        uuid.UUID `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		User:        task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
