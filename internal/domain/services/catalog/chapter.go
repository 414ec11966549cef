package catalog

import (
	"context"

	"coursepanel/internal/domain/models/catalog"
)

// CreateChapterRequest represents a request to create a chapter.
// Order is optional; when nil the next free order in the course is used.
type CreateChapterRequest struct {
	CourseID    string `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
}

// UpdateChapterRequest lists the writable chapter fields
type UpdateChapterRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// ChapterService defines business logic operations for chapters
type ChapterService interface {
	// CreateChapter creates a chapter in an existing course
	CreateChapter(ctx context.Context, req *CreateChapterRequest) (*catalog.Chapter, error)

	// GetChapter retrieves a chapter with its lessons
	GetChapter(ctx context.Context, id string) (*catalog.ChapterWithLessons, error)

	// ListChapters lists chapters of a course, or all chapters when courseID is empty
	ListChapters(ctx context.Context, courseID string) ([]catalog.Chapter, error)

	// UpdateChapter merges the provided fields over the stored chapter
	UpdateChapter(ctx context.Context, id string, req *UpdateChapterRequest) (*catalog.Chapter, error)

	// DeleteChapter deletes a chapter and its lessons.
	// Returns false if the chapter did not exist.
	DeleteChapter(ctx context.Context, id string) (bool, error)

	// ReorderChapters applies new orders atomically and returns the updated chapters
	// in request order. Unknown IDs are skipped.
	ReorderChapters(ctx context.Context, items []catalog.ReorderItem) ([]catalog.Chapter, error)
}
