package catalog

import (
	"context"
	"fmt"
	"strings"

	"coursepanel/internal/domain"
	models "coursepanel/internal/domain/models/catalog"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	"coursepanel/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCourseRepository implements the CourseRepository interface
type PostgresCourseRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(config *postgres.RepositoryConfig) catalogRepo.CourseRepository {
	return &PostgresCourseRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const courseColumns = "id, title, description, status, cover, price, pricing_type, content, created_at, updated_at"

// Create inserts a new course
func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Courses, courseColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Status,
		course.Cover,
		course.Price,
		course.PricingType,
		course.Content,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("course %s already exists", course.ID),
				ResourceType: "course",
				Field:        "id",
			}
		}
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if !postgres.IsValidID(id) {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, courseColumns, r.tables.Courses)

	course, err := scanCourse(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// List returns one page of matching courses ordered by updated_at DESC and the total match count
func (r *PostgresCourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	where := `
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR title ILIKE $2 OR description ILIKE $2 OR content ILIKE $2)
	`
	pattern := ""
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern = "%" + escapeLike(search) + "%"
	}

	executor := postgres.GetExecutor(ctx, r.pool)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, r.tables.Courses, where)
	if err := executor.QueryRow(ctx, countQuery, filter.Status, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	// LIMIT NULL returns all rows
	query := fmt.Sprintf(`
		SELECT %s FROM %s %s
		ORDER BY updated_at DESC, id
		LIMIT NULLIF($3::int, 0) OFFSET $4
	`, courseColumns, r.tables.Courses, where)

	rows, err := executor.Query(ctx, query, filter.Status, pattern, filter.Limit, max(filter.Offset, 0))
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, total, nil
}

// Update persists all writable fields and updated_at
func (r *PostgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	if !postgres.IsValidID(course.ID) {
		return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, status = $3, cover = $4, price = $5,
		    pricing_type = $6, content = $7, updated_at = $8
		WHERE id = $9
	`, r.tables.Courses)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		course.Title,
		course.Description,
		course.Status,
		course.Cover,
		course.Price,
		course.PricingType,
		course.Content,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a course; chapters and lessons follow through ON DELETE CASCADE
func (r *PostgresCourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !postgres.IsValidID(id) {
		return false, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Courses)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteAll removes every course
func (r *PostgresCourseRepository) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, r.tables.Courses)
	if _, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query); err != nil {
		return fmt.Errorf("delete courses: %w", err)
	}
	return nil
}

// Count returns the total number of courses
func (r *PostgresCourseRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.pool, r.tables.Courses)
}

func scanCourse(row interface{ Scan(dest ...any) error }) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Status,
		&course.Cover,
		&course.Price,
		&course.PricingType,
		&course.Content,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// escapeLike escapes LIKE wildcards so search text matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func countRows(ctx context.Context, pool *pgxpool.Pool, table string) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	if err := postgres.GetExecutor(ctx, pool).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
