package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/repositories"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

// NewUserRepository creates a user repository backed by the store
func NewUserRepository(store *Store) repositories.UserRepository {
	return &userRepository{store: store}
}

// Create stores a new user. Username and email must be unique.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.store.writeLock(ctx)()

	if err := r.checkUnique(user); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)

	r.store.users[user.ID] = *user
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.store.readLock(ctx)()

	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer r.store.readLock(ctx)()

	for _, user := range r.store.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

// List returns all users ordered by creation time
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	defer r.store.readLock(ctx)()

	users := make([]models.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b models.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return users, nil
}

// Update persists all mutable fields
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer r.store.writeLock(ctx)()

	existing, ok := r.store.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	user.CreatedAt = existing.CreatedAt

	r.store.users[user.ID] = *user
	return nil
}

// Delete removes a user
func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer r.store.writeLock(ctx)()

	if _, ok := r.store.users[id]; !ok {
		return false, nil
	}
	delete(r.store.users, id)
	return true, nil
}

// DeleteAll removes every user
func (r *userRepository) DeleteAll(ctx context.Context) error {
	defer r.store.writeLock(ctx)()

	r.store.users = make(map[string]models.User)
	return nil
}

// checkUnique rejects a username or email already used by another user
func (r *userRepository) checkUnique(user *models.User) error {
	for _, other := range r.store.users {
		if other.ID == user.ID {
			continue
		}
		if other.Username == user.Username {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("username '%s' already exists", user.Username),
				ResourceType: "user",
				Field:        "username",
			}
		}
		if strings.EqualFold(other.Email, user.Email) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("email '%s' already exists", user.Email),
				ResourceType: "user",
				Field:        "email",
			}
		}
	}
	return nil
}
