package catalog

import (
	"context"
	"time"

	"coursepanel/internal/domain/models/catalog"
)

// ChapterRepository defines data access operations for chapters
type ChapterRepository interface {
	// Create stores a new chapter and assigns its ID
	Create(ctx context.Context, chapter *catalog.Chapter) error

	// GetByID retrieves a chapter by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*catalog.Chapter, error)

	// List returns all chapters in display order (course, then order)
	List(ctx context.Context) ([]catalog.Chapter, error)

	// ListByCourse returns the chapters of a course in display order
	ListByCourse(ctx context.Context, courseID string) ([]catalog.Chapter, error)

	// MaxOrder returns the highest order among a course's chapters.
	// ok is false when the course has no chapters.
	MaxOrder(ctx context.Context, courseID string) (max int, ok bool, err error)

	// Update persists all writable fields and updated_at
	Update(ctx context.Context, chapter *catalog.Chapter) error

	// SetOrder updates only order and updated_at and returns the updated chapter.
	// Returns domain.ErrNotFound if absent.
	SetOrder(ctx context.Context, id string, order int, at time.Time) (*catalog.Chapter, error)

	// Delete removes a chapter. Returns false if the chapter did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteByCourse removes all chapters of a course and returns how many were removed
	DeleteByCourse(ctx context.Context, courseID string) (int, error)

	// Count returns the total number of chapters
	Count(ctx context.Context) (int, error)
}
