package catalog

import (
	"context"
	"time"

	"coursepanel/internal/domain/models/catalog"
)

// LessonRepository defines data access operations for lessons
type LessonRepository interface {
	// Create stores a new lesson and assigns its ID
	Create(ctx context.Context, lesson *catalog.Lesson) error

	// GetByID retrieves a lesson by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*catalog.Lesson, error)

	// List returns all lessons in display order (chapter, then order)
	List(ctx context.Context) ([]catalog.Lesson, error)

	// ListByChapter returns the lessons of a chapter in display order
	ListByChapter(ctx context.Context, chapterID string) ([]catalog.Lesson, error)

	// ListByChapters returns the lessons of all given chapters
	ListByChapters(ctx context.Context, chapterIDs []string) ([]catalog.Lesson, error)

	// MaxOrder returns the highest order among a chapter's lessons.
	// ok is false when the chapter has no lessons.
	MaxOrder(ctx context.Context, chapterID string) (max int, ok bool, err error)

	// Update persists all writable fields and updated_at
	Update(ctx context.Context, lesson *catalog.Lesson) error

	// SetOrder updates only order and updated_at and returns the updated lesson.
	// Returns domain.ErrNotFound if absent.
	SetOrder(ctx context.Context, id string, order int, at time.Time) (*catalog.Lesson, error)

	// Delete removes a lesson. Returns false if the lesson did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteByChapters removes all lessons of the given chapters and returns how many were removed
	DeleteByChapters(ctx context.Context, chapterIDs []string) (int, error)

	// Count returns the total number of lessons
	Count(ctx context.Context) (int, error)
}
