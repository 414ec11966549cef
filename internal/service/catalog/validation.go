package catalog

import (
	"context"
	"fmt"

	catalogRepo "coursepanel/internal/domain/repositories/catalog"
)

// ResourceValidator checks that parent resources exist before
// children are created under them or moved to them
type ResourceValidator struct {
	courseRepo  catalogRepo.CourseRepository
	chapterRepo catalogRepo.ChapterRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(
	courseRepo catalogRepo.CourseRepository,
	chapterRepo catalogRepo.ChapterRepository,
) *ResourceValidator {
	return &ResourceValidator{
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
	}
}

// ValidateCourse ensures a course exists.
// Returns a wrapped domain.ErrNotFound otherwise.
func (v *ResourceValidator) ValidateCourse(ctx context.Context, courseID string) error {
	if _, err := v.courseRepo.GetByID(ctx, courseID); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}
	return nil
}

// ValidateChapter ensures a chapter exists and returns its course ID.
// Returns a wrapped domain.ErrNotFound otherwise.
func (v *ResourceValidator) ValidateChapter(ctx context.Context, chapterID string) (string, error) {
	chapter, err := v.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return "", fmt.Errorf("invalid chapter: %w", err)
	}
	return chapter.CourseID, nil
}
