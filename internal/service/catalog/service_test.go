package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"coursepanel/internal/domain"
	models "coursepanel/internal/domain/models/catalog"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/repository/memory"
)

// fakeCache is an in-process StructureCache that records invalidations
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]*models.CourseStructure
	versions    map[string]int64
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:  make(map[string]*models.CourseStructure),
		versions: make(map[string]int64),
	}
}

func (c *fakeCache) Get(_ context.Context, courseID string) (*models.CourseStructure, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[courseID]
	return s, ok, nil
}

func (c *fakeCache) Version(_ context.Context, courseID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[courseID], nil
}

func (c *fakeCache) Set(_ context.Context, s *models.CourseStructure, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[s.ID] != version {
		return nil
	}
	c.entries[s.ID] = s
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, courseIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range courseIDs {
		delete(c.entries, id)
		c.versions[id]++
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

// hookedLessons runs afterList once after the next ListByChapters returns
type hookedLessons struct {
	catalogRepo.LessonRepository
	afterList func()
}

func (h *hookedLessons) ListByChapters(ctx context.Context, chapterIDs []string) ([]models.Lesson, error) {
	lessons, err := h.LessonRepository.ListByChapters(ctx, chapterIDs)
	if hook := h.afterList; hook != nil {
		h.afterList = nil
		hook()
	}
	return lessons, err
}

// fakePublisher records published events
type fakePublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	courses   catalogSvc.CourseService
	chapters  catalogSvc.ChapterService
	lessons   catalogSvc.LessonService
	structure catalogSvc.StructureService
	cache     *fakeCache
	publisher *fakePublisher
	reads     *hookedLessons
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	courseRepo := memory.NewCourseRepository(store)
	chapterRepo := memory.NewChapterRepository(store)
	lessonRepo := memory.NewLessonRepository(store)
	txManager := memory.NewTransactionManager(store)

	reads := &hookedLessons{LessonRepository: lessonRepo}
	cache := newFakeCache()
	publisher := &fakePublisher{}
	changes := NewChangeRecorder(cache, publisher, logger)
	validator := NewResourceValidator(courseRepo, chapterRepo)
	sanitizer := NewHTMLSanitizer()

	return &testEnv{
		courses:   NewCourseService(courseRepo, chapterRepo, lessonRepo, txManager, sanitizer, changes, logger),
		chapters:  NewChapterService(chapterRepo, lessonRepo, txManager, validator, changes, logger),
		lessons:   NewLessonService(lessonRepo, chapterRepo, txManager, validator, sanitizer, changes, logger),
		structure: NewStructureService(courseRepo, chapterRepo, reads, cache, logger),
		cache:     cache,
		publisher: publisher,
		reads:     reads,
	}
}

func (e *testEnv) course(t *testing.T, title string) *models.Course {
	t.Helper()
	course, err := e.courses.CreateCourse(context.Background(), &catalogSvc.CreateCourseRequest{Title: title})
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	return course
}

func (e *testEnv) chapter(t *testing.T, courseID, title string, order *int) *models.Chapter {
	t.Helper()
	chapter, err := e.chapters.CreateChapter(context.Background(), &catalogSvc.CreateChapterRequest{
		CourseID: courseID,
		Title:    title,
		Order:    order,
	})
	if err != nil {
		t.Fatalf("CreateChapter failed: %v", err)
	}
	return chapter
}

func (e *testEnv) lesson(t *testing.T, chapterID, title string, order *int) *models.Lesson {
	t.Helper()
	lesson, err := e.lessons.CreateLesson(context.Background(), &catalogSvc.CreateLessonRequest{
		ChapterID: chapterID,
		Title:     title,
		Order:     order,
	})
	if err != nil {
		t.Fatalf("CreateLesson failed: %v", err)
	}
	return lesson
}

func intPtr(v int) *int { return &v }

func TestCreate_AssignsDefaultOrders(t *testing.T) {
	env := newTestEnv(t)
	course := env.course(t, "Go")

	ch1 := env.chapter(t, course.ID, "Intro", nil)
	ch2 := env.chapter(t, course.ID, "Basics", nil)
	if ch1.Order != 1 || ch2.Order != 2 {
		t.Errorf("expected chapter orders 1, 2; got %d, %d", ch1.Order, ch2.Order)
	}

	l1 := env.lesson(t, ch1.ID, "Hello", nil)
	l2 := env.lesson(t, ch1.ID, "World", nil)
	if l1.Order != 100 || l2.Order != 200 {
		t.Errorf("expected lesson orders 100, 200; got %d, %d", l1.Order, l2.Order)
	}

	// Defaults continue after the highest order, not the count
	env.chapter(t, course.ID, "Late", intPtr(10))
	ch4 := env.chapter(t, course.ID, "Later", nil)
	if ch4.Order != 11 {
		t.Errorf("expected order 11 after explicit 10, got %d", ch4.Order)
	}

	if l1.Type != models.LessonTypeVideo {
		t.Errorf("expected default lesson type video, got %s", l1.Type)
	}
}

func TestCreate_MissingParentIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.chapters.CreateChapter(ctx, &catalogSvc.CreateChapterRequest{CourseID: "missing", Title: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("chapter: expected ErrNotFound, got %v", err)
	}

	_, err = env.lessons.CreateLesson(ctx, &catalogSvc.CreateLessonRequest{ChapterID: "missing", Title: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("lesson: expected ErrNotFound, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	chapter := env.chapter(t, course.ID, "Intro", nil)

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "course without title",
			run: func() error {
				_, err := env.courses.CreateCourse(ctx, &catalogSvc.CreateCourseRequest{Title: "   "})
				return err
			},
		},
		{
			name: "course with unknown status",
			run: func() error {
				_, err := env.courses.CreateCourse(ctx, &catalogSvc.CreateCourseRequest{Title: "x", Status: "archived"})
				return err
			},
		},
		{
			name: "paid course without price",
			run: func() error {
				_, err := env.courses.CreateCourse(ctx, &catalogSvc.CreateCourseRequest{Title: "x", PricingType: models.PricingPaid})
				return err
			},
		},
		{
			name: "chapter without title",
			run: func() error {
				_, err := env.chapters.CreateChapter(ctx, &catalogSvc.CreateChapterRequest{CourseID: course.ID})
				return err
			},
		},
		{
			name: "lesson with unknown type",
			run: func() error {
				_, err := env.lessons.CreateLesson(ctx, &catalogSvc.CreateLessonRequest{ChapterID: chapter.ID, Title: "x", Type: "podcast"})
				return err
			},
		},
		{
			name: "lesson with negative duration",
			run: func() error {
				_, err := env.lessons.CreateLesson(ctx, &catalogSvc.CreateLessonRequest{ChapterID: chapter.ID, Title: "x", Duration: -1})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestReorderChapters_ThenStructure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	a := env.chapter(t, course.ID, "A", nil)
	b := env.chapter(t, course.ID, "B", nil)

	// Warm the cache so the reorder has to invalidate it
	if _, err := env.structure.GetCourseStructure(ctx, course.ID); err != nil {
		t.Fatalf("GetCourseStructure failed: %v", err)
	}

	updated, err := env.chapters.ReorderChapters(ctx, []models.ReorderItem{
		{ID: a.ID, Order: intPtr(2)},
		{ID: b.ID, Order: intPtr(1)},
	})
	if err != nil {
		t.Fatalf("ReorderChapters failed: %v", err)
	}
	if len(updated) != 2 || updated[0].ID != a.ID || updated[1].ID != b.ID {
		t.Fatalf("expected updated chapters in request order, got %+v", updated)
	}

	structure, err := env.structure.GetCourseStructure(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStructure failed: %v", err)
	}
	if structure.Chapters[0].ID != b.ID || structure.Chapters[1].ID != a.ID {
		t.Errorf("expected B before A, got %s, %s", structure.Chapters[0].Title, structure.Chapters[1].Title)
	}

	// Applying the same batch again changes nothing
	if _, err := env.chapters.ReorderChapters(ctx, []models.ReorderItem{
		{ID: a.ID, Order: intPtr(2)},
		{ID: b.ID, Order: intPtr(1)},
	}); err != nil {
		t.Fatalf("second ReorderChapters failed: %v", err)
	}
	again, _ := env.structure.GetCourseStructure(ctx, course.ID)
	if again.Chapters[0].Order != 1 || again.Chapters[1].Order != 2 {
		t.Errorf("expected orders 1, 2 after repeat, got %d, %d", again.Chapters[0].Order, again.Chapters[1].Order)
	}
}

func TestStructure_ReorderDuringBuildIsNotCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	a := env.chapter(t, course.ID, "A", nil)
	b := env.chapter(t, course.ID, "B", nil)

	// The reorder commits after the build has read its rows but before it caches them
	env.reads.afterList = func() {
		if _, err := env.chapters.ReorderChapters(ctx, []models.ReorderItem{
			{ID: a.ID, Order: intPtr(2)},
			{ID: b.ID, Order: intPtr(1)},
		}); err != nil {
			t.Errorf("ReorderChapters failed: %v", err)
		}
	}

	stale, err := env.structure.GetCourseStructure(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStructure failed: %v", err)
	}
	if stale.Chapters[0].ID != a.ID {
		t.Fatalf("expected the racing build to see the old order")
	}
	if _, ok, _ := env.cache.Get(ctx, course.ID); ok {
		t.Error("expected the racing build not to be cached")
	}

	fresh, err := env.structure.GetCourseStructure(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStructure failed: %v", err)
	}
	if fresh.Chapters[0].ID != b.ID || fresh.Chapters[0].Order != 1 || fresh.Chapters[1].Order != 2 {
		t.Errorf("expected B(1) A(2), got %s(%d) %s(%d)",
			fresh.Chapters[0].Title, fresh.Chapters[0].Order,
			fresh.Chapters[1].Title, fresh.Chapters[1].Order)
	}
	if _, ok, _ := env.cache.Get(ctx, course.ID); !ok {
		t.Error("expected the clean build to be cached")
	}
}

func TestReorder_RejectsMalformedBatchWithoutWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	a := env.chapter(t, course.ID, "A", nil)
	b := env.chapter(t, course.ID, "B", nil)

	tests := []struct {
		name  string
		items []models.ReorderItem
	}{
		{name: "empty batch", items: []models.ReorderItem{}},
		{name: "nil batch", items: nil},
		{name: "missing order", items: []models.ReorderItem{{ID: a.ID, Order: intPtr(5)}, {ID: b.ID}}},
		{name: "missing id", items: []models.ReorderItem{{ID: a.ID, Order: intPtr(5)}, {Order: intPtr(6)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.chapters.ReorderChapters(ctx, tt.items)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}

			got, err := env.chapters.GetChapter(ctx, a.ID)
			if err != nil {
				t.Fatalf("GetChapter failed: %v", err)
			}
			if got.Order != 1 {
				t.Errorf("expected chapter A to keep order 1, got %d", got.Order)
			}
		})
	}
}

func TestReorderLessons_ZeroOrderAndUnknownIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	chapter := env.chapter(t, course.ID, "Intro", nil)
	first := env.lesson(t, chapter.ID, "First", nil)
	second := env.lesson(t, chapter.ID, "Second", nil)

	updated, err := env.lessons.ReorderLessons(ctx, []models.ReorderItem{
		{ID: second.ID, Order: intPtr(0)},
		{ID: "does-not-exist", Order: intPtr(50)},
	})
	if err != nil {
		t.Fatalf("ReorderLessons failed: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != second.ID || updated[0].Order != 0 {
		t.Fatalf("expected only the known lesson updated to order 0, got %+v", updated)
	}

	lessons, err := env.lessons.ListLessons(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("ListLessons failed: %v", err)
	}
	if lessons[0].ID != second.ID || lessons[1].ID != first.ID {
		t.Errorf("expected Second before First, got %s, %s", lessons[0].Title, lessons[1].Title)
	}

	found := false
	for _, eventType := range env.publisher.types() {
		if eventType == models.EventLessonsReordered {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a %s event, got %v", models.EventLessonsReordered, env.publisher.types())
	}
}

func TestStructure_SortsAndDropsForeignChildren(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	other := env.course(t, "Rust")

	ch1 := env.chapter(t, course.ID, "Second", intPtr(2))
	ch2 := env.chapter(t, course.ID, "First", intPtr(1))
	env.chapter(t, other.ID, "Elsewhere", intPtr(0))

	env.lesson(t, ch1.ID, "L200", intPtr(200))
	env.lesson(t, ch1.ID, "L100", intPtr(100))

	structure, err := env.structure.GetCourseStructure(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStructure failed: %v", err)
	}

	if len(structure.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(structure.Chapters))
	}
	if structure.Chapters[0].ID != ch2.ID {
		t.Errorf("expected First chapter first, got %s", structure.Chapters[0].Title)
	}
	if structure.Chapters[0].Lessons == nil || len(structure.Chapters[0].Lessons) != 0 {
		t.Errorf("expected empty non-nil lessons for First, got %v", structure.Chapters[0].Lessons)
	}
	lessons := structure.Chapters[1].Lessons
	if len(lessons) != 2 || lessons[0].Title != "L100" || lessons[1].Title != "L200" {
		t.Errorf("expected lessons L100, L200, got %+v", lessons)
	}

	if _, err := env.structure.GetCourseStructure(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing course, got %v", err)
	}
}

func TestAssembleStructure_DropsOrphans(t *testing.T) {
	course := &models.Course{ID: "c1"}
	chapters := []models.Chapter{
		{ID: "ch1", CourseID: "c1", Order: 1},
		{ID: "ch2", CourseID: "c2", Order: 0},
	}
	lessons := []models.Lesson{
		{ID: "l1", ChapterID: "ch1", Order: 100},
		{ID: "l2", ChapterID: "ghost", Order: 100},
		{ID: "l3", ChapterID: "ch2", Order: 100},
	}

	structure := assembleStructure(course, chapters, lessons)
	if len(structure.Chapters) != 1 || structure.Chapters[0].ID != "ch1" {
		t.Fatalf("expected only ch1, got %+v", structure.Chapters)
	}
	if len(structure.Chapters[0].Lessons) != 1 || structure.Chapters[0].Lessons[0].ID != "l1" {
		t.Errorf("expected only l1, got %+v", structure.Chapters[0].Lessons)
	}
}

func TestDelete_NonexistentReturnsFalse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		del  func(string) (bool, error)
	}{
		{name: "course", del: func(id string) (bool, error) { return env.courses.DeleteCourse(ctx, id) }},
		{name: "chapter", del: func(id string) (bool, error) { return env.chapters.DeleteChapter(ctx, id) }},
		{name: "lesson", del: func(id string) (bool, error) { return env.lessons.DeleteLesson(ctx, id) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted, err := tt.del("missing")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if deleted {
				t.Error("expected deleted=false")
			}
		})
	}
}

func TestDeleteCourse_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	chapter := env.chapter(t, course.ID, "Intro", nil)
	lesson := env.lesson(t, chapter.ID, "Hello", nil)

	deleted, err := env.courses.DeleteCourse(ctx, course.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteCourse: deleted=%v err=%v", deleted, err)
	}

	if _, err := env.chapters.GetChapter(ctx, chapter.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected chapter gone, got %v", err)
	}
	if _, err := env.lessons.GetLesson(ctx, lesson.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected lesson gone, got %v", err)
	}
	if _, err := env.courses.GetCourse(ctx, course.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected course gone, got %v", err)
	}
}

func TestDeleteChapter_RemovesLessons(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	chapter := env.chapter(t, course.ID, "Intro", nil)
	lesson := env.lesson(t, chapter.ID, "Hello", nil)

	deleted, err := env.chapters.DeleteChapter(ctx, chapter.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteChapter: deleted=%v err=%v", deleted, err)
	}
	if _, err := env.lessons.GetLesson(ctx, lesson.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected lesson gone, got %v", err)
	}
}

func TestListCourses_Pagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := range 25 {
		env.course(t, fmt.Sprintf("Course %02d", i))
	}

	tests := []struct {
		name      string
		query     catalogSvc.ListCoursesQuery
		wantItems int
		wantPage  int
		wantSize  int
		wantPages int
	}{
		{name: "last partial page", query: catalogSvc.ListCoursesQuery{Page: 3, Limit: 10}, wantItems: 5, wantPage: 3, wantSize: 10, wantPages: 3},
		{name: "defaults", query: catalogSvc.ListCoursesQuery{}, wantItems: 10, wantPage: 1, wantSize: 10, wantPages: 3},
		{name: "negative page clamps to first", query: catalogSvc.ListCoursesQuery{Page: -2, Limit: 5}, wantItems: 5, wantPage: 1, wantSize: 5, wantPages: 5},
		{name: "limit capped", query: catalogSvc.ListCoursesQuery{Page: 1, Limit: 1000}, wantItems: 25, wantPage: 1, wantSize: 100, wantPages: 1},
		{name: "past the end", query: catalogSvc.ListCoursesQuery{Page: 9, Limit: 10}, wantItems: 0, wantPage: 9, wantSize: 10, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.courses.ListCourses(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListCourses failed: %v", err)
			}
			if len(page.Data) != tt.wantItems {
				t.Errorf("items: expected %d, got %d", tt.wantItems, len(page.Data))
			}
			if page.Meta.CurrentPage != tt.wantPage || page.Meta.PageSize != tt.wantSize {
				t.Errorf("meta: expected page %d size %d, got %+v", tt.wantPage, tt.wantSize, page.Meta)
			}
			if page.Meta.TotalItems != 25 || page.Meta.TotalPages != tt.wantPages {
				t.Errorf("totals: expected 25 items in %d pages, got %+v", tt.wantPages, page.Meta)
			}
			if page.Data == nil {
				t.Error("expected non-nil data slice")
			}
		})
	}
}

func TestUpdateCourse_MergesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := env.course(t, "Go")
	env.chapter(t, course.ID, "Intro", nil)

	title := "Go in Depth"
	content := `<p>ok</p><script>alert(1)</script>`
	updated, err := env.courses.UpdateCourse(ctx, course.ID, &catalogSvc.UpdateCourseRequest{
		Title:   &title,
		Content: &content,
	})
	if err != nil {
		t.Fatalf("UpdateCourse failed: %v", err)
	}
	if updated.Title != title {
		t.Errorf("expected title %q, got %q", title, updated.Title)
	}
	if updated.Status != models.CourseStatusDraft {
		t.Errorf("expected untouched status draft, got %s", updated.Status)
	}
	if updated.Content == nil || *updated.Content != "<p>ok</p>" {
		t.Errorf("expected sanitized content, got %v", updated.Content)
	}
	if updated.UpdatedAt.Before(course.UpdatedAt) {
		t.Errorf("expected updatedAt not to move backwards")
	}

	structure, err := env.structure.GetCourseStructure(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStructure failed: %v", err)
	}
	if len(structure.Chapters) != 1 {
		t.Errorf("expected chapters untouched by course update, got %d", len(structure.Chapters))
	}

	paid := models.PricingPaid
	_, err = env.courses.UpdateCourse(ctx, course.ID, &catalogSvc.UpdateCourseRequest{PricingType: &paid})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for paid course without price, got %v", err)
	}

	if _, err := env.courses.UpdateCourse(ctx, "missing", &catalogSvc.UpdateCourseRequest{Title: &title}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateLesson_MoveAppendsToNewChapter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	goCourse := env.course(t, "Go")
	rustCourse := env.course(t, "Rust")
	from := env.chapter(t, goCourse.ID, "From", nil)
	to := env.chapter(t, rustCourse.ID, "To", nil)
	env.lesson(t, to.ID, "Existing", nil)
	moving := env.lesson(t, from.ID, "Moving", nil)

	env.cache.mu.Lock()
	env.cache.invalidated = nil
	env.cache.mu.Unlock()

	updated, err := env.lessons.UpdateLesson(ctx, moving.ID, &catalogSvc.UpdateLessonRequest{ChapterID: &to.ID})
	if err != nil {
		t.Fatalf("UpdateLesson failed: %v", err)
	}
	if updated.ChapterID != to.ID || updated.Order != 200 {
		t.Errorf("expected lesson in new chapter at order 200, got chapter %s order %d", updated.ChapterID, updated.Order)
	}

	env.cache.mu.Lock()
	invalidated := append([]string(nil), env.cache.invalidated...)
	env.cache.mu.Unlock()
	if len(invalidated) != 2 || invalidated[0] != goCourse.ID || invalidated[1] != rustCourse.ID {
		t.Errorf("expected both courses invalidated, got %v", invalidated)
	}

	missing := "missing"
	if _, err := env.lessons.UpdateLesson(ctx, moving.ID, &catalogSvc.UpdateLessonRequest{ChapterID: &missing}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound moving to a missing chapter, got %v", err)
	}
}

func TestChangeRecorder_PublishFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")

	course := env.course(t, "Go")
	if course.ID == "" {
		t.Fatal("expected course to be created despite publish failure")
	}
	if got := env.publisher.types(); len(got) != 1 || got[0] != models.EventCourseCreated {
		t.Errorf("expected one %s attempt, got %v", models.EventCourseCreated, got)
	}
}
