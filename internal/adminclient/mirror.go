package adminclient

import (
	"context"
	"errors"
	"sync"

	catalog "coursepanel/internal/domain/models/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"
)

// ErrNotLoaded is returned by mirror mutations before the first Refresh
var ErrNotLoaded = errors.New("mirror not loaded")

// Mirror keeps a local copy of one course structure. Every mutation goes to
// the server first and the response is merged into the copy. The server stays
// authoritative; Refresh replaces the copy with a fresh fetch.
type Mirror struct {
	client   *Client
	courseID string

	mu        sync.RWMutex
	structure *catalog.CourseStructure
}

// NewMirror creates a mirror for courseID. Call Refresh to load it.
func NewMirror(client *Client, courseID string) *Mirror {
	return &Mirror{client: client, courseID: courseID}
}

// Refresh refetches the structure from the server
func (m *Mirror) Refresh(ctx context.Context) error {
	structure, err := m.client.GetStructure(ctx, m.courseID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.structure = structure
	m.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the mirrored structure, or nil before the first Refresh
func (m *Mirror) Snapshot() *catalog.CourseStructure {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.structure == nil {
		return nil
	}
	return cloneStructure(m.structure)
}

// apply runs merge under the write lock
func (m *Mirror) apply(merge func(s *catalog.CourseStructure)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.structure == nil {
		return ErrNotLoaded
	}
	merge(m.structure)
	return nil
}

// UpdateCourse updates the course header fields
func (m *Mirror) UpdateCourse(ctx context.Context, update *CourseUpdate) (*catalog.Course, error) {
	course, err := m.client.UpdateCourse(ctx, m.courseID, update)
	if err != nil {
		return nil, err
	}
	return course, m.apply(func(s *catalog.CourseStructure) { mergeCourse(s, *course) })
}

// CreateChapter creates a chapter in the mirrored course
func (m *Mirror) CreateChapter(ctx context.Context, req *catalogSvc.CreateChapterRequest) (*catalog.Chapter, error) {
	scoped := *req
	scoped.CourseID = m.courseID
	chapter, err := m.client.CreateChapter(ctx, &scoped)
	if err != nil {
		return nil, err
	}
	return chapter, m.apply(func(s *catalog.CourseStructure) { mergeChapter(s, *chapter) })
}

// UpdateChapter updates a chapter
func (m *Mirror) UpdateChapter(ctx context.Context, id string, req *catalogSvc.UpdateChapterRequest) (*catalog.Chapter, error) {
	chapter, err := m.client.UpdateChapter(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return chapter, m.apply(func(s *catalog.CourseStructure) { mergeChapter(s, *chapter) })
}

// DeleteChapter deletes a chapter. A 404 still removes the local copy.
func (m *Mirror) DeleteChapter(ctx context.Context, id string) error {
	if err := m.client.DeleteChapter(ctx, id); err != nil && !IsNotFound(err) {
		return err
	}
	return m.apply(func(s *catalog.CourseStructure) { removeChapter(s, id) })
}

// ReorderChapters reorders chapters
func (m *Mirror) ReorderChapters(ctx context.Context, items []catalog.ReorderItem) ([]catalog.Chapter, error) {
	chapters, err := m.client.ReorderChapters(ctx, items)
	if err != nil {
		return nil, err
	}
	return chapters, m.apply(func(s *catalog.CourseStructure) {
		for _, ch := range chapters {
			if findChapter(s, ch.ID) >= 0 {
				mergeChapter(s, ch)
			}
		}
	})
}

// CreateLesson creates a lesson in req.ChapterID
func (m *Mirror) CreateLesson(ctx context.Context, req *catalogSvc.CreateLessonRequest) (*catalog.Lesson, error) {
	lesson, err := m.client.CreateLesson(ctx, req)
	if err != nil {
		return nil, err
	}
	return lesson, m.apply(func(s *catalog.CourseStructure) { mergeLesson(s, *lesson) })
}

// UpdateLesson updates a lesson. Moving it to another chapter splices it across.
func (m *Mirror) UpdateLesson(ctx context.Context, id string, req *catalogSvc.UpdateLessonRequest) (*catalog.Lesson, error) {
	lesson, err := m.client.UpdateLesson(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return lesson, m.apply(func(s *catalog.CourseStructure) { mergeLesson(s, *lesson) })
}

// DeleteLesson deletes a lesson. A 404 still removes the local copy.
func (m *Mirror) DeleteLesson(ctx context.Context, id string) error {
	if err := m.client.DeleteLesson(ctx, id); err != nil && !IsNotFound(err) {
		return err
	}
	return m.apply(func(s *catalog.CourseStructure) { removeLesson(s, id) })
}

// ReorderLessons reorders lessons
func (m *Mirror) ReorderLessons(ctx context.Context, items []catalog.ReorderItem) ([]catalog.Lesson, error) {
	lessons, err := m.client.ReorderLessons(ctx, items)
	if err != nil {
		return nil, err
	}
	return lessons, m.apply(func(s *catalog.CourseStructure) {
		for _, l := range lessons {
			mergeLesson(s, l)
		}
	})
}
