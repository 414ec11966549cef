package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/repositories"
	"coursepanel/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	TTL() time.Duration
}

// authService implements the AuthService interface
type authService struct {
	userRepo repositories.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session token.
// Unknown users, wrong passwords and inactive accounts all fail the same way.
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	err := validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("login rejected", "username", req.Username, "reason", "unknown user")
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Info("login rejected", "username", req.Username, "reason", "wrong password")
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if !user.IsActive() {
		s.logger.Info("login rejected", "username", req.Username, "reason", "inactive")
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "id", user.ID, "username", user.Username)

	return &services.LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL() / time.Second),
	}, nil
}

// CurrentUser resolves the user behind a verified token
func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.userRepo.GetByID(ctx, userID)
}
