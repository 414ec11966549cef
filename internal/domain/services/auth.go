package services

import (
	"context"

	"coursepanel/internal/domain/models"
)

// LoginRequest carries admin credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned on a successful login
type LoginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"` // seconds
}

// AuthService authenticates admin users and issues session tokens
type AuthService interface {
	// Login verifies credentials and issues a signed token.
	// Returns domain.ErrUnauthorized for unknown users, wrong passwords or inactive accounts.
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)

	// CurrentUser resolves the user behind a verified token subject
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}
