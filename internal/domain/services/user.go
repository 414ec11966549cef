package services

import (
	"context"

	"coursepanel/internal/domain/models"
)

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// UpdateUserRequest lists the writable user fields. A non-nil Password is re-hashed.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

// UserService defines business logic operations for admin users
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error)

	// DeleteUser returns false if the user did not exist
	DeleteUser(ctx context.Context, id string) (bool, error)
}
