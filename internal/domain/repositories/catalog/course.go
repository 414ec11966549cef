package catalog

import (
	"context"

	"coursepanel/internal/domain/models/catalog"
)

// CourseRepository defines data access operations for courses
type CourseRepository interface {
	// Create stores a new course and assigns its ID
	Create(ctx context.Context, course *catalog.Course) error

	// GetByID retrieves a course by ID. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*catalog.Course, error)

	// List returns the page of courses matching filter ordered by updated_at DESC,
	// plus the total number of matches before pagination
	List(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, int, error)

	// Update persists all writable fields and updated_at
	Update(ctx context.Context, course *catalog.Course) error

	// Delete removes a course. Returns false if the course did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAll removes every course
	DeleteAll(ctx context.Context) error

	// Count returns the total number of courses
	Count(ctx context.Context) (int, error)
}
