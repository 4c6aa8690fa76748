// Package service defines the backend-agnostic interface for auth and task
// operations, along with the shared types and their validation rules.
package service

import "context"

// Service defines the interface for remote backend operations.
// All calls to the task API go through this interface.
// HTTP handlers never import the backend client directly.
//
// Implementations return *googleapi.Error for responses that carry an HTTP
// status, and plain errors for everything else (network, decoding).
type Service interface {
	// Login exchanges credentials for a token pair and the user.
	Login(ctx context.Context, in LoginInput) (AuthResult, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)

	// Refresh trades a refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (AuthTokens, error)

	// Logout revokes a refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// Me returns the user owning the access token.
	Me(ctx context.Context, accessToken string) (User, error)

	// ListTasks returns one page of tasks matching the filters.
	ListTasks(ctx context.Context, accessToken string, f TaskFilters) (TaskPage, error)

	// CreateTask creates a task.
	CreateTask(ctx context.Context, accessToken string, in CreateTaskInput) (Task, error)

	// GetTask fetches a task by id.
	GetTask(ctx context.Context, accessToken, id string) (Task, error)

	// UpdateTask applies a partial update.
	UpdateTask(ctx context.Context, accessToken, id string, in UpdateTaskInput) (Task, error)

	// UpdateTaskStatus changes only the status.
	UpdateTaskStatus(ctx context.Context, accessToken, id string, in UpdateTaskStatusInput) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, accessToken, id string) error
}
