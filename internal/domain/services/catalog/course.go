package catalog

import (
	"context"

	"coursepanel/internal/domain/models/catalog"
)

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Cover       string   `json:"cover"`
	Price       *float64 `json:"price"`
	PricingType string   `json:"pricingType"`
	Content     *string  `json:"content"`
}

// OptionalPrice tracks tri-state semantics for price updates.
// Transport-agnostic (no JSON tags) - handler maps from httputil.OptionalFloat.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&x: set to x
type OptionalPrice struct {
	Present bool
	Value   *float64
}

// UpdateCourseRequest lists the writable course fields. Nil pointers leave
// the stored value unchanged. Relations (chapters) are never written here.
type UpdateCourseRequest struct {
	Title       *string
	Description *string
	Status      *string
	Cover       *string
	Price       OptionalPrice
	PricingType *string
	Content     *string
}

// ListCoursesQuery holds pagination and filter parameters for the course list
type ListCoursesQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// CourseService defines business logic operations for courses
type CourseService interface {
	// CreateCourse creates a new course
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*catalog.Course, error)

	// GetCourse retrieves a course by ID
	GetCourse(ctx context.Context, id string) (*catalog.Course, error)

	// ListCourses returns one page of courses, most recently updated first
	ListCourses(ctx context.Context, query ListCoursesQuery) (*catalog.Page[catalog.Course], error)

	// UpdateCourse merges the provided fields over the stored course
	UpdateCourse(ctx context.Context, id string, req *UpdateCourseRequest) (*catalog.Course, error)

	// DeleteCourse deletes a course with its chapters and lessons.
	// Returns false if the course did not exist.
	DeleteCourse(ctx context.Context, id string) (bool, error)
}
