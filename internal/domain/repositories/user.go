package repositories

import (
	"context"

	"coursepanel/internal/domain/models"
)

// UserRepository defines data access operations for admin users
type UserRepository interface {
	// Create stores a new user and assigns its ID.
	// Returns *domain.ConflictError if username or email is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsername retrieves a user by username (exact match)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List retrieves all users ordered by created_at
	List(ctx context.Context) ([]models.User, error)

	// Update persists all mutable fields and updated_at
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user. Returns false if the user did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAll removes every user
	DeleteAll(ctx context.Context) error
}
