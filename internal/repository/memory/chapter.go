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

type chapterRepository struct {
	store *Store
}

// NewChapterRepository creates a chapter repository backed by the store
func NewChapterRepository(store *Store) catalogRepo.ChapterRepository {
	return &chapterRepository{store: store}
}

// Create stores a new chapter. The parent course must exist.
func (r *chapterRepository) Create(ctx context.Context, chapter *catalog.Chapter) error {
	defer r.store.writeLock(ctx)()

	if _, ok := r.store.courses[chapter.CourseID]; !ok {
		return fmt.Errorf("course %s: %w", chapter.CourseID, domain.ErrNotFound)
	}
	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}
	stamp(&chapter.CreatedAt, &chapter.UpdatedAt)

	r.store.chapters[chapter.ID] = *chapter
	r.store.indexChapter(chapter.CourseID, chapter.ID)
	return nil
}

// GetByID retrieves a chapter by ID
func (r *chapterRepository) GetByID(ctx context.Context, id string) (*catalog.Chapter, error) {
	defer r.store.readLock(ctx)()

	chapter, ok := r.store.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	return &chapter, nil
}

// List returns all chapters grouped by course, each group in display order
func (r *chapterRepository) List(ctx context.Context) ([]catalog.Chapter, error) {
	defer r.store.readLock(ctx)()

	chapters := make([]catalog.Chapter, 0, len(r.store.chapters))
	for _, chapter := range r.store.chapters {
		chapters = append(chapters, chapter)
	}
	slices.SortFunc(chapters, func(a, b catalog.Chapter) int {
		if c := strings.Compare(a.CourseID, b.CourseID); c != 0 {
			return c
		}
		return compareSiblings(a, b)
	})
	return chapters, nil
}

// ListByCourse returns the chapters of a course in display order
func (r *chapterRepository) ListByCourse(ctx context.Context, courseID string) ([]catalog.Chapter, error) {
	defer r.store.readLock(ctx)()

	ids := r.store.chaptersByCourse[courseID]
	chapters := make([]catalog.Chapter, 0, len(ids))
	for _, id := range ids {
		chapters = append(chapters, r.store.chapters[id])
	}
	return chapters, nil
}

// MaxOrder returns the highest chapter order in a course
func (r *chapterRepository) MaxOrder(ctx context.Context, courseID string) (int, bool, error) {
	defer r.store.readLock(ctx)()

	ids := r.store.chaptersByCourse[courseID]
	if len(ids) == 0 {
		return 0, false, nil
	}
	highest := r.store.chapters[ids[0]].Order
	for _, id := range ids[1:] {
		highest = max(highest, r.store.chapters[id].Order)
	}
	return highest, true, nil
}

// Update persists all writable fields and updated_at
func (r *chapterRepository) Update(ctx context.Context, chapter *catalog.Chapter) error {
	defer r.store.writeLock(ctx)()

	existing, ok := r.store.chapters[chapter.ID]
	if !ok {
		return fmt.Errorf("chapter %s: %w", chapter.ID, domain.ErrNotFound)
	}
	if _, ok := r.store.courses[chapter.CourseID]; !ok {
		return fmt.Errorf("course %s: %w", chapter.CourseID, domain.ErrNotFound)
	}
	chapter.CreatedAt = existing.CreatedAt

	r.store.chapters[chapter.ID] = *chapter
	if existing.CourseID != chapter.CourseID {
		r.store.unindexChapter(existing.CourseID, chapter.ID)
	}
	r.store.indexChapter(chapter.CourseID, chapter.ID)
	return nil
}

// SetOrder updates order and updated_at only
func (r *chapterRepository) SetOrder(ctx context.Context, id string, order int, at time.Time) (*catalog.Chapter, error) {
	defer r.store.writeLock(ctx)()

	chapter, ok := r.store.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", id, domain.ErrNotFound)
	}
	chapter.Order = order
	chapter.UpdatedAt = at

	r.store.chapters[id] = chapter
	r.store.indexChapter(chapter.CourseID, id)
	return &chapter, nil
}

// Delete removes a chapter and its lessons
func (r *chapterRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer r.store.writeLock(ctx)()

	if _, ok := r.store.chapters[id]; !ok {
		return false, nil
	}
	r.store.deleteChapterLocked(id)
	return true, nil
}

// DeleteByCourse removes all chapters of a course
func (r *chapterRepository) DeleteByCourse(ctx context.Context, courseID string) (int, error) {
	defer r.store.writeLock(ctx)()

	ids := slices.Clone(r.store.chaptersByCourse[courseID])
	for _, id := range ids {
		r.store.deleteChapterLocked(id)
	}
	return len(ids), nil
}

// Count returns the total number of chapters
func (r *chapterRepository) Count(ctx context.Context) (int, error) {
	defer r.store.readLock(ctx)()
	return len(r.store.chapters), nil
}
