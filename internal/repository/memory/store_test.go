package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/models/catalog"
)

func newTestCourse(t *testing.T, store *Store, title string) *catalog.Course {
	t.Helper()
	course := &catalog.Course{Title: title, Status: catalog.CourseStatusDraft, PricingType: catalog.PricingFree}
	if err := NewCourseRepository(store).Create(context.Background(), course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func TestChapterIndex_KeepsDisplayOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	course := newTestCourse(t, store, "Go")
	repo := NewChapterRepository(store)

	for _, order := range []int{3, 1, 2} {
		ch := &catalog.Chapter{CourseID: course.ID, Title: fmt.Sprintf("ch%d", order), Order: order}
		if err := repo.Create(ctx, ch); err != nil {
			t.Fatalf("create chapter: %v", err)
		}
	}

	chapters, err := repo.ListByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("ListByCourse failed: %v", err)
	}
	for i, want := range []int{1, 2, 3} {
		if chapters[i].Order != want {
			t.Errorf("position %d: expected order %d, got %d", i, want, chapters[i].Order)
		}
	}

	// Moving the last chapter first re-sorts the index
	if _, err := repo.SetOrder(ctx, chapters[2].ID, 0, time.Now()); err != nil {
		t.Fatalf("SetOrder failed: %v", err)
	}
	chapters, _ = repo.ListByCourse(ctx, course.ID)
	if chapters[0].Title != "ch3" {
		t.Errorf("expected ch3 first after reorder, got %s", chapters[0].Title)
	}

	highest, ok, _ := repo.MaxOrder(ctx, course.ID)
	if !ok || highest != 2 {
		t.Errorf("expected max order 2, got %d (ok=%v)", highest, ok)
	}
}

func TestChapterCreate_RequiresCourse(t *testing.T) {
	store := NewStore()
	err := NewChapterRepository(store).Create(context.Background(), &catalog.Chapter{CourseID: "missing", Title: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseDelete_CascadesToChildren(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	course := newTestCourse(t, store, "Go")
	chapters := NewChapterRepository(store)
	lessons := NewLessonRepository(store)

	ch := &catalog.Chapter{CourseID: course.ID, Title: "intro", Order: 1}
	if err := chapters.Create(ctx, ch); err != nil {
		t.Fatal(err)
	}
	if err := lessons.Create(ctx, &catalog.Lesson{ChapterID: ch.ID, Title: "hello", Order: 100}); err != nil {
		t.Fatal(err)
	}

	deleted, err := NewCourseRepository(store).Delete(ctx, course.ID)
	if err != nil || !deleted {
		t.Fatalf("expected delete to succeed, got deleted=%v err=%v", deleted, err)
	}

	if n, _ := chapters.Count(ctx); n != 0 {
		t.Errorf("expected 0 chapters, got %d", n)
	}
	if n, _ := lessons.Count(ctx); n != 0 {
		t.Errorf("expected 0 lessons, got %d", n)
	}

	deleted, err = NewCourseRepository(store).Delete(ctx, course.ID)
	if err != nil || deleted {
		t.Errorf("expected second delete to report false without error, got deleted=%v err=%v", deleted, err)
	}
}

func TestCourseList_FilterAndPaginate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewCourseRepository(store)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		status := catalog.CourseStatusDraft
		if i%5 == 0 {
			status = catalog.CourseStatusPublished
		}
		course := &catalog.Course{
			Title:     fmt.Sprintf("Course %02d", i),
			Status:    status,
			CreatedAt: base,
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, course); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		filter    catalog.CourseFilter
		wantLen   int
		wantTotal int
		wantFirst string
	}{
		{"third page", catalog.CourseFilter{Offset: 20, Limit: 10}, 5, 25, "Course 04"},
		{"first page newest first", catalog.CourseFilter{Limit: 10}, 10, 25, "Course 24"},
		{"status filter", catalog.CourseFilter{Status: catalog.CourseStatusPublished}, 5, 5, "Course 20"},
		{"case-insensitive search", catalog.CourseFilter{Search: "COURSE 1"}, 10, 10, "Course 19"},
		{"offset past end", catalog.CourseFilter{Offset: 100, Limit: 10}, 0, 25, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, total, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(courses) != tt.wantLen || total != tt.wantTotal {
				t.Fatalf("expected %d/%d, got %d/%d", tt.wantLen, tt.wantTotal, len(courses), total)
			}
			if tt.wantFirst != "" && courses[0].Title != tt.wantFirst {
				t.Errorf("expected first %q, got %q", tt.wantFirst, courses[0].Title)
			}
		})
	}
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	course := newTestCourse(t, store, "Go")
	chapters := NewChapterRepository(store)
	ch := &catalog.Chapter{CourseID: course.ID, Title: "intro", Order: 1}
	if err := chapters.Create(ctx, ch); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := NewTransactionManager(store).ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := chapters.SetOrder(txCtx, ch.ID, 42, time.Now()); err != nil {
			return err
		}
		if _, err := NewCourseRepository(store).Delete(txCtx, course.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := chapters.GetByID(ctx, ch.ID)
	if err != nil {
		t.Fatalf("chapter should survive rollback: %v", err)
	}
	if got.Order != 1 {
		t.Errorf("expected order 1 after rollback, got %d", got.Order)
	}
	list, _ := chapters.ListByCourse(ctx, course.ID)
	if len(list) != 1 {
		t.Errorf("expected index restored with 1 chapter, got %d", len(list))
	}
}

func TestLessonUpdate_MovesBetweenChapters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	course := newTestCourse(t, store, "Go")
	chapters := NewChapterRepository(store)
	lessons := NewLessonRepository(store)

	a := &catalog.Chapter{CourseID: course.ID, Title: "a", Order: 1}
	b := &catalog.Chapter{CourseID: course.ID, Title: "b", Order: 2}
	for _, ch := range []*catalog.Chapter{a, b} {
		if err := chapters.Create(ctx, ch); err != nil {
			t.Fatal(err)
		}
	}
	lesson := &catalog.Lesson{ChapterID: a.ID, Title: "l", Order: 100}
	if err := lessons.Create(ctx, lesson); err != nil {
		t.Fatal(err)
	}

	lesson.ChapterID = b.ID
	if err := lessons.Update(ctx, lesson); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if got, _ := lessons.ListByChapter(ctx, a.ID); len(got) != 0 {
		t.Errorf("expected chapter a empty, got %d lessons", len(got))
	}
	if got, _ := lessons.ListByChapter(ctx, b.ID); len(got) != 1 {
		t.Errorf("expected chapter b to hold the lesson, got %d", len(got))
	}
}

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	if err := repo.Create(ctx, &models.User{Username: "admin", Email: "admin@example.com"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		user models.User
	}{
		{"duplicate username", models.User{Username: "admin", Email: "other@example.com"}},
		{"duplicate email ignoring case", models.User{Username: "other", Email: "ADMIN@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &tt.user)
			if !errors.Is(err, domain.ErrConflict) {
				t.Errorf("expected ErrConflict, got %v", err)
			}
		})
	}
}
