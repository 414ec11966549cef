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

// PostgresLessonRepository implements the LessonRepository interface
type PostgresLessonRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(config *postgres.RepositoryConfig) catalogRepo.LessonRepository {
	return &PostgresLessonRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const lessonColumns = "id, chapter_id, title, content, duration, type, video_url, sort_order, created_at, updated_at"

const lessonOrder = "sort_order, created_at, id"

// Create inserts a new lesson. A missing chapter surfaces as domain.ErrNotFound.
func (r *PostgresLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if !postgres.IsValidID(lesson.ChapterID) {
		return fmt.Errorf("chapter %s: %w", lesson.ChapterID, domain.ErrNotFound)
	}
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Lessons, lessonColumns)

	_, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		lesson.ID,
		lesson.ChapterID,
		lesson.Title,
		lesson.Content,
		lesson.Duration,
		lesson.Type,
		lesson.VideoURL,
		lesson.Order,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("chapter %s: %w", lesson.ChapterID, domain.ErrNotFound)
		}
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID retrieves a lesson by ID
func (r *PostgresLessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	if !postgres.IsValidID(id) {
		return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, lessonColumns, r.tables.Lessons)

	lesson, err := scanLesson(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return lesson, nil
}

// List returns all lessons grouped by chapter
func (r *PostgresLessonRepository) List(ctx context.Context) ([]models.Lesson, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY chapter_id, %s`, lessonColumns, r.tables.Lessons, lessonOrder)
	return r.query(ctx, query)
}

// ListByChapter returns the lessons of a chapter in display order
func (r *PostgresLessonRepository) ListByChapter(ctx context.Context, chapterID string) ([]models.Lesson, error) {
	if !postgres.IsValidID(chapterID) {
		return []models.Lesson{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE chapter_id = $1 ORDER BY %s`, lessonColumns, r.tables.Lessons, lessonOrder)
	return r.query(ctx, query, chapterID)
}

// ListByChapters returns the lessons of all given chapters
func (r *PostgresLessonRepository) ListByChapters(ctx context.Context, chapterIDs []string) ([]models.Lesson, error) {
	if len(chapterIDs) == 0 {
		return []models.Lesson{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE chapter_id = ANY($1) ORDER BY chapter_id, %s`, lessonColumns, r.tables.Lessons, lessonOrder)
	return r.query(ctx, query, chapterIDs)
}

// MaxOrder returns the highest lesson order in a chapter.
// The chapter row stays locked until the surrounding transaction ends.
func (r *PostgresLessonRepository) MaxOrder(ctx context.Context, chapterID string) (int, bool, error) {
	if !postgres.IsValidID(chapterID) {
		return 0, false, nil
	}
	query := maxOrderQuery(r.tables.Chapters, r.tables.Lessons, "chapter_id")

	var highest *int
	if err := postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, chapterID).Scan(&highest); err != nil {
		return 0, false, fmt.Errorf("max lesson order: %w", err)
	}
	if highest == nil {
		return 0, false, nil
	}
	return *highest, true, nil
}

// Update persists all writable fields and updated_at
func (r *PostgresLessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	if !postgres.IsValidID(lesson.ID) {
		return fmt.Errorf("lesson %s: %w", lesson.ID, domain.ErrNotFound)
	}
	if !postgres.IsValidID(lesson.ChapterID) {
		return fmt.Errorf("chapter %s: %w", lesson.ChapterID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET chapter_id = $1, title = $2, content = $3, duration = $4, type = $5,
		    video_url = $6, sort_order = $7, updated_at = $8
		WHERE id = $9
	`, r.tables.Lessons)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query,
		lesson.ChapterID,
		lesson.Title,
		lesson.Content,
		lesson.Duration,
		lesson.Type,
		lesson.VideoURL,
		lesson.Order,
		lesson.UpdatedAt,
		lesson.ID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("chapter %s: %w", lesson.ChapterID, domain.ErrNotFound)
		}
		return fmt.Errorf("update lesson: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson %s: %w", lesson.ID, domain.ErrNotFound)
	}

	return nil
}

// SetOrder updates order and updated_at only
func (r *PostgresLessonRepository) SetOrder(ctx context.Context, id string, order int, at time.Time) (*models.Lesson, error) {
	if !postgres.IsValidID(id) {
		return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		UPDATE %s SET sort_order = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s
	`, r.tables.Lessons, lessonColumns)

	lesson, err := scanLesson(postgres.GetExecutor(ctx, r.pool).QueryRow(ctx, query, order, at, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("set lesson order: %w", err)
	}
	return lesson, nil
}

// Delete removes a lesson
func (r *PostgresLessonRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !postgres.IsValidID(id) {
		return false, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Lessons)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete lesson: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByChapters removes all lessons of the given chapters
func (r *PostgresLessonRepository) DeleteByChapters(ctx context.Context, chapterIDs []string) (int, error) {
	if len(chapterIDs) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE chapter_id = ANY($1)`, r.tables.Lessons)

	result, err := postgres.GetExecutor(ctx, r.pool).Exec(ctx, query, chapterIDs)
	if err != nil {
		return 0, fmt.Errorf("delete lessons of chapters: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// Count returns the total number of lessons
func (r *PostgresLessonRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.pool, r.tables.Lessons)
}

func (r *PostgresLessonRepository) query(ctx context.Context, query string, args ...any) ([]models.Lesson, error) {
	rows, err := postgres.GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, *lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}

func scanLesson(row interface{ Scan(dest ...any) error }) (*models.Lesson, error) {
	var lesson models.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.ChapterID,
		&lesson.Title,
		&lesson.Content,
		&lesson.Duration,
		&lesson.Type,
		&lesson.VideoURL,
		&lesson.Order,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
