package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursepanel/internal/config"
	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/repositories"
	"coursepanel/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// maxPasswordLength is the bcrypt input limit
const maxPasswordLength = 72

var (
	userRoles    = []interface{}{models.RoleAdmin, models.RoleEditor, models.RoleViewer}
	userStatuses = []interface{}{models.UserStatusActive, models.UserStatusInactive}
)

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// userService implements the UserService interface
type userService struct {
	userRepo repositories.UserRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	hasher PasswordHasher,
	logger *slog.Logger,
) services.UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// CreateUser creates a user with a hashed password
func (s *userService) CreateUser(ctx context.Context, req *services.CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = models.RoleEditor
	}
	if req.Status == "" {
		req.Status = models.UserStatusActive
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       req.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"id", user.ID,
		"username", user.Username,
		"role", user.Role,
	)

	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers lists all users
func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser merges the provided fields over the stored user
func (s *userService) UpdateUser(ctx context.Context, id string, req *services.UpdateUserRequest) (*models.User, error) {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}

	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.Password != nil {
		if user.PasswordHash, err = s.hasher.Hash(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		"id", user.ID,
		"username", user.Username,
	)

	return user, nil
}

// DeleteUser deletes a user
func (s *userService) DeleteUser(ctx context.Context, id string) (bool, error) {
	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("user deleted", "id", id)
	}
	return deleted, nil
}

// validateCreateRequest validates a create user request
func (s *userService) validateCreateRequest(req *services.CreateUserRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(1, config.MaxUsernameLength),
		),
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, maxPasswordLength),
		),
		validation.Field(&req.Role, validation.In(userRoles...)),
		validation.Field(&req.Status, validation.In(userStatuses...)),
	)
}

// validateUpdateRequest validates an update user request
func (s *userService) validateUpdateRequest(req *services.UpdateUserRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxUsernameLength),
		),
		validation.Field(&req.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&req.Password,
			validation.NilOrNotEmpty,
			validation.Length(config.MinPasswordLength, maxPasswordLength),
		),
		validation.Field(&req.Role, validation.NilOrNotEmpty, validation.In(userRoles...)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(userStatuses...)),
	)
}
