package catalog

import (
	"context"

	"coursepanel/internal/domain/models/catalog"
)

// CreateLessonRequest represents a request to create a lesson.
// Order is optional; when nil the next free order in the chapter is used.
type CreateLessonRequest struct {
	ChapterID string  `json:"chapterId"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Duration  int     `json:"duration"`
	Type      string  `json:"type"`
	VideoURL  *string `json:"videoUrl"`
	Order     *int    `json:"order"`
}

// UpdateLessonRequest lists the writable lesson fields.
// Setting ChapterID moves the lesson to another chapter.
type UpdateLessonRequest struct {
	ChapterID *string `json:"chapterId"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Duration  *int    `json:"duration"`
	Type      *string `json:"type"`
	VideoURL  *string `json:"videoUrl"`
	Order     *int    `json:"order"`
}

// LessonService defines business logic operations for lessons
type LessonService interface {
	// CreateLesson creates a lesson in an existing chapter
	CreateLesson(ctx context.Context, req *CreateLessonRequest) (*catalog.Lesson, error)

	// GetLesson retrieves a lesson by ID
	GetLesson(ctx context.Context, id string) (*catalog.Lesson, error)

	// ListLessons lists lessons of a chapter, or all lessons when chapterID is empty
	ListLessons(ctx context.Context, chapterID string) ([]catalog.Lesson, error)

	// UpdateLesson merges the provided fields over the stored lesson
	UpdateLesson(ctx context.Context, id string, req *UpdateLessonRequest) (*catalog.Lesson, error)

	// DeleteLesson deletes a lesson. Returns false if the lesson did not exist.
	DeleteLesson(ctx context.Context, id string) (bool, error)

	// ReorderLessons applies new orders atomically and returns the updated lessons
	// in request order. Unknown IDs are skipped.
	ReorderLessons(ctx context.Context, items []catalog.ReorderItem) ([]catalog.Lesson, error)
}
