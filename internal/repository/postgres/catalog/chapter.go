package catalog

import (
	"context"
	"fmt"
	"time"

	"coursepanel/internal/domain"
	models "coursepanel/internal/domain/models/catalog"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	"coursepanel/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChapterRepository implements the ChapterRepository interface
type PostgresChapterRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewChapterRepository creates a new chapter repository
func NewChapterRepository(config *postgres.RepositoryConfig) catalogRepo.ChapterRepository {
	return &PostgresChapterRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const chapterColumns = "id, course_id, title, description, sort_order, created_at, updated_at"

// Display order within a course; ties fall back to creation time then id
const chapterOrder = "sort_order, created_at, id"

// Create inserts a new chapter. A missing course surfaces as domain.ErrNotFound.
func (r *PostgresChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	if !postgres.IsValidID(chapter.CourseID) {
		return fmt.Errorf("course %s: %w", chapter.CourseID, domain.ErrNotFound)
	}
	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Chapters, chapterColumns)

	_, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		chapter.ID,
		chapter.CourseID,
		chapter.Title,
		chapter.Description,
		chapter.Order,
		chapter.CreatedAt,
		chapter.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("course %s: %w", chapter.CourseID, domain.ErrNotFound)
		}
		return fmt.Errorf("create chapter: %w", err)
	}

	return nil
}

// GetByID retrieves a chapter by ID
func (r *PostgresChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	if !postgres.IsValidID(id) {
		return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, chapterColumns, r.tables.Chapters)

	chapter, err := scanChapter(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return chapter, nil
}

// List returns all chapters grouped by course
func (r *PostgresChapterRepository) List(ctx context.Context) ([]models.Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY course_id, %s`, chapterColumns, r.tables.Chapters, chapterOrder)
	return r.query(ctx, query)
}

// ListByCourse returns the chapters of a course in display order
func (r *PostgresChapterRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Chapter, error) {
	if !postgres.IsValidID(courseID) {
		return []models.Chapter{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE course_id = $1 ORDER BY %s`, chapterColumns, r.tables.Chapters, chapterOrder)
	return r.query(ctx, query, courseID)
}

// MaxOrder returns the highest chapter order in a course.
// The course row stays locked until the surrounding transaction ends.
func (r *PostgresChapterRepository) MaxOrder(ctx context.Context, courseID string) (int, bool, error) {
	if !postgres.IsValidID(courseID) {
		return 0, false, nil
	}
	query := maxOrderQuery(r.tables.Courses, r.tables.Chapters, "course_id")

	var highest *int
	if err := postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, courseID).Scan(&highest); err != nil {
		return 0, false, fmt.Errorf("max chapter order: %w", err)
	}
	if highest == nil {
		return 0, false, nil
	}
	return *highest, true, nil
}

// Update persists all writable fields and updated_at
func (r *PostgresChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	if !postgres.IsValidID(chapter.ID) {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrNotFound)
	}
	if !postgres.IsValidID(chapter.CourseID) {
		return fmt.Errorf("course %s: %w", chapter.CourseID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET course_id = $1, title = $2, description = $3, sort_order = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Chapters)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		chapter.CourseID,
		chapter.Title,
		chapter.Description,
		chapter.Order,
		chapter.UpdatedAt,
		chapter.ID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("course %s: %w", chapter.CourseID, domain.ErrNotFound)
		}
		return fmt.Errorf("update chapter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrNotFound)
	}

	return nil
}

// SetOrder updates order and updated_at only
func (r *PostgresChapterRepository) SetOrder(ctx context.Context, id string, order int, at time.Time) (*models.Chapter, error) {
	if !postgres.IsValidID(id) {
		return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		UPDATE %s SET sort_order = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s
	`, r.tables.Chapters, chapterColumns)

	chapter, err := scanChapter(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, order, at, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("set chapter order: %w", err)
	}
	return chapter, nil
}

// Delete removes a chapter; lessons follow through ON DELETE CASCADE
func (r *PostgresChapterRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !postgres.IsValidID(id) {
		return false, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Chapters)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete chapter: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByCourse removes all chapters of a course
func (r *PostgresChapterRepository) DeleteByCourse(ctx context.Context, courseID string) (int, error) {
	if !postgres.IsValidID(courseID) {
		return 0, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE course_id = $1`, r.tables.Chapters)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, courseID)
	if err != nil {
		return 0, fmt.Errorf("delete chapters of course: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// Count returns the total number of chapters
func (r *PostgresChapterRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.pool, r.tables.Chapters)
}

func (r *PostgresChapterRepository) query(ctx context.Context, query string, args ...any) ([]models.Chapter, error) {
	rows, err := postgres.GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, *chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chapters: %w", err)
	}

	return chapters, nil
}

func scanChapter(row interface{ Scan(dest ...any) error }) (*models.Chapter, error) {
	var chapter models.Chapter
	err := row.Scan(
		&chapter.ID,
		&chapter.CourseID,
		&chapter.Title,
		&chapter.Description,
		&chapter.Order,
		&chapter.CreatedAt,
		&chapter.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// maxOrderQuery selects the highest sibling order under a parent row and locks
// that row, so two transactions appending to the same parent serialize on it
func maxOrderQuery(parentTable, childTable, parentColumn string) string {
	return fmt.Sprintf(`
		WITH parent AS (
			SELECT id FROM %s WHERE id = $1 FOR UPDATE
		)
		SELECT MAX(c.sort_order)
		FROM %s c
		JOIN parent p ON c.%s = p.id
	`, parentTable, childTable, parentColumn)
}
