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

type lessonRepository struct {
	store *Store
}

// NewLessonRepository creates a lesson repository backed by the store
func NewLessonRepository(store *Store) catalogRepo.LessonRepository {
	return &lessonRepository{store: store}
}

// Create stores a new lesson. The parent chapter must exist.
func (r *lessonRepository) Create(ctx context.Context, lesson *catalog.Lesson) error {
	defer r.store.writeLock(ctx)()

	if _, ok := r.store.chapters[lesson.ChapterID]; !ok {
		return fmt.Errorf("chapter %s: %w", lesson.ChapterID, domain.ErrNotFound)
	}
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	stamp(&lesson.CreatedAt, &lesson.UpdatedAt)

	r.store.lessons[lesson.ID] = *lesson
	r.store.indexLesson(lesson.ChapterID, lesson.ID)
	return nil
}

// GetByID retrieves a lesson by ID
func (r *lessonRepository) GetByID(ctx context.Context, id string) (*catalog.Lesson, error) {
	defer r.store.readLock(ctx)()

	lesson, ok := r.store.lessons[id]
	if !ok {
		return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}
	return &lesson, nil
}

// List returns all lessons grouped by chapter, each group in display order
func (r *lessonRepository) List(ctx context.Context) ([]catalog.Lesson, error) {
	defer r.store.readLock(ctx)()

	lessons := make([]catalog.Lesson, 0, len(r.store.lessons))
	for _, lesson := range r.store.lessons {
		lessons = append(lessons, lesson)
	}
	slices.SortFunc(lessons, func(a, b catalog.Lesson) int {
		if c := strings.Compare(a.ChapterID, b.ChapterID); c != 0 {
			return c
		}
		return compareSiblings(a, b)
	})
	return lessons, nil
}

// ListByChapter returns the lessons of a chapter in display order
func (r *lessonRepository) ListByChapter(ctx context.Context, chapterID string) ([]catalog.Lesson, error) {
	defer r.store.readLock(ctx)()

	ids := r.store.lessonsByChapter[chapterID]
	lessons := make([]catalog.Lesson, 0, len(ids))
	for _, id := range ids {
		lessons = append(lessons, r.store.lessons[id])
	}
	return lessons, nil
}

// ListByChapters returns the lessons of all given chapters, grouped per chapter in display order
func (r *lessonRepository) ListByChapters(ctx context.Context, chapterIDs []string) ([]catalog.Lesson, error) {
	defer r.store.readLock(ctx)()

	lessons := make([]catalog.Lesson, 0)
	for _, chapterID := range chapterIDs {
		for _, id := range r.store.lessonsByChapter[chapterID] {
			lessons = append(lessons, r.store.lessons[id])
		}
	}
	return lessons, nil
}

// MaxOrder returns the highest lesson order in a chapter
func (r *lessonRepository) MaxOrder(ctx context.Context, chapterID string) (int, bool, error) {
	defer r.store.readLock(ctx)()

	ids := r.store.lessonsByChapter[chapterID]
	if len(ids) == 0 {
		return 0, false, nil
	}
	highest := r.store.lessons[ids[0]].Order
	for _, id := range ids[1:] {
		highest = max(highest, r.store.lessons[id].Order)
	}
	return highest, true, nil
}

// Update persists all writable fields and updated_at. Changing ChapterID moves the lesson.
func (r *lessonRepository) Update(ctx context.Context, lesson *catalog.Lesson) error {
	defer r.store.writeLock(ctx)()

	existing, ok := r.store.lessons[lesson.ID]
	if !ok {
		return fmt.Errorf("lesson %s: %w", lesson.ID, domain.ErrNotFound)
	}
	if _, ok := r.store.chapters[lesson.ChapterID]; !ok {
		return fmt.Errorf("chapter %s: %w", lesson.ChapterID, domain.ErrNotFound)
	}
	lesson.CreatedAt = existing.CreatedAt

	r.store.lessons[lesson.ID] = *lesson
	if existing.ChapterID != lesson.ChapterID {
		r.store.unindexLesson(existing.ChapterID, lesson.ID)
	}
	r.store.indexLesson(lesson.ChapterID, lesson.ID)
	return nil
}

// SetOrder updates order and updated_at only
func (r *lessonRepository) SetOrder(ctx context.Context, id string, order int, at time.Time) (*catalog.Lesson, error) {
	defer r.store.writeLock(ctx)()

	lesson, ok := r.store.lessons[id]
	if !ok {
		return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
	}
	lesson.Order = order
	lesson.UpdatedAt = at

	r.store.lessons[id] = lesson
	r.store.indexLesson(lesson.ChapterID, id)
	return &lesson, nil
}

// Delete removes a lesson
func (r *lessonRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer r.store.writeLock(ctx)()

	lesson, ok := r.store.lessons[id]
	if !ok {
		return false, nil
	}
	delete(r.store.lessons, id)
	r.store.unindexLesson(lesson.ChapterID, id)
	return true, nil
}

// DeleteByChapters removes all lessons of the given chapters
func (r *lessonRepository) DeleteByChapters(ctx context.Context, chapterIDs []string) (int, error) {
	defer r.store.writeLock(ctx)()

	removed := 0
	for _, chapterID := range chapterIDs {
		for _, id := range r.store.lessonsByChapter[chapterID] {
			delete(r.store.lessons, id)
			removed++
		}
		delete(r.store.lessonsByChapter, chapterID)
	}
	return removed, nil
}

// Count returns the total number of lessons
func (r *lessonRepository) Count(ctx context.Context) (int, error) {
	defer r.store.readLock(ctx)()
	return len(r.store.lessons), nil
}
