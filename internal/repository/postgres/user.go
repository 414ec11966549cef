package postgres

import (
	"context"
	"fmt"
	"strings"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const userColumns = "id, username, email, password_hash, role, status, created_at, updated_at"

// Create inserts a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Users, userColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return userConflict(err, user)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !IsValidID(id) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, r.tables.Users)

	user, err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE username = $1`, userColumns, r.tables.Users)

	user, err := scanUser(GetExecutor(ctx, r.pool).QueryRow(ctx, query, username))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// List retrieves all users ordered by created_at
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at, id`, userColumns, r.tables.Users)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Update persists all mutable fields
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	if !IsValidID(user.ID) {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET username = $1, email = $2, password_hash = $3, role = $4, status = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return userConflict(err, user)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a user
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !IsValidID(id) {
		return false, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Users)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteAll removes every user
func (r *PostgresUserRepository) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, r.tables.Users)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// userConflict names the colliding field from the violated unique index
func userConflict(err error, user *models.User) error {
	if strings.Contains(PgConstraintName(err), "email") {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("email '%s' already exists", user.Email),
			ResourceType: "user",
			Field:        "email",
		}
	}
	return &domain.ConflictError{
		Message:      fmt.Sprintf("username '%s' already exists", user.Username),
		ResourceType: "user",
		Field:        "username",
	}
}
