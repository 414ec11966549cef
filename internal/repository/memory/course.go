package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models/catalog"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"

	"github.com/google/uuid"
)

type courseRepository struct {
	store *Store
}

// NewCourseRepository creates a course repository backed by the store
func NewCourseRepository(store *Store) catalogRepo.CourseRepository {
	return &courseRepository{store: store}
}

// Create stores a new course and assigns its ID
func (r *courseRepository) Create(ctx context.Context, course *catalog.Course) error {
	defer r.store.writeLock(ctx)()

	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if _, exists := r.store.courses[course.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("course %s already exists", course.ID),
			ResourceType: "course",
			Field:        "id",
		}
	}
	stamp(&course.CreatedAt, &course.UpdatedAt)

	r.store.courses[course.ID] = *course
	return nil
}

// GetByID retrieves a course by ID
func (r *courseRepository) GetByID(ctx context.Context, id string) (*catalog.Course, error) {
	defer r.store.readLock(ctx)()

	course, ok := r.store.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return &course, nil
}

// List filters, sorts by updated_at DESC and slices the course collection
func (r *courseRepository) List(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, int, error) {
	defer r.store.readLock(ctx)()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matches := make([]catalog.Course, 0, len(r.store.courses))
	for _, course := range r.store.courses {
		if filter.Status != "" && course.Status != filter.Status {
			continue
		}
		if search != "" && !courseMatches(course, search) {
			continue
		}
		matches = append(matches, course)
	}

	slices.SortFunc(matches, func(a, b catalog.Course) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	total := len(matches)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	return matches[start:end], total, nil
}

// Update persists all writable fields and updated_at
func (r *courseRepository) Update(ctx context.Context, course *catalog.Course) error {
	defer r.store.writeLock(ctx)()

	existing, ok := r.store.courses[course.ID]
	if !ok {
		return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
	}
	course.CreatedAt = existing.CreatedAt
	r.store.courses[course.ID] = *course
	return nil
}

// Delete removes a course together with its chapters and lessons
func (r *courseRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer r.store.writeLock(ctx)()

	if _, ok := r.store.courses[id]; !ok {
		return false, nil
	}
	for _, chapterID := range slices.Clone(r.store.chaptersByCourse[id]) {
		r.store.deleteChapterLocked(chapterID)
	}
	delete(r.store.chaptersByCourse, id)
	delete(r.store.courses, id)
	return true, nil
}

// DeleteAll removes every course, chapter and lesson
func (r *courseRepository) DeleteAll(ctx context.Context) error {
	defer r.store.writeLock(ctx)()

	r.store.courses = make(map[string]catalog.Course)
	r.store.chapters = make(map[string]catalog.Chapter)
	r.store.lessons = make(map[string]catalog.Lesson)
	r.store.chaptersByCourse = make(map[string][]string)
	r.store.lessonsByChapter = make(map[string][]string)
	return nil
}

// Count returns the total number of courses
func (r *courseRepository) Count(ctx context.Context) (int, error) {
	defer r.store.readLock(ctx)()
	return len(r.store.courses), nil
}

func courseMatches(course catalog.Course, search string) bool {
	if strings.Contains(strings.ToLower(course.Title), search) ||
		strings.Contains(strings.ToLower(course.Description), search) {
		return true
	}
	return course.Content != nil && strings.Contains(strings.ToLower(*course.Content), search)
}

// stamp fills zero timestamps with the current time
func stamp(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}
