package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/models/catalog"
)

// Store is the process-local backing collection for the memory repositories.
// Records are held by value and copied in and out, so callers never share
// memory with the store. Parent indexes keep child IDs in display order.
type Store struct {
	mu sync.RWMutex

	courses  map[string]catalog.Course
	chapters map[string]catalog.Chapter
	lessons  map[string]catalog.Lesson
	users    map[string]models.User

	chaptersByCourse map[string][]string
	lessonsByChapter map[string][]string
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.courses = make(map[string]catalog.Course)
	s.chapters = make(map[string]catalog.Chapter)
	s.lessons = make(map[string]catalog.Lesson)
	s.users = make(map[string]models.User)
	s.chaptersByCourse = make(map[string][]string)
	s.lessonsByChapter = make(map[string][]string)
}

// txKey marks a context as running inside ExecTx of a given store.
// Repositories seeing the mark skip locking because ExecTx already holds the write lock.
type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	st, _ := ctx.Value(txKey{}).(*Store)
	return st == s
}

// readLock acquires the shared lock unless ctx is inside a transaction on this store
func (s *Store) readLock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// writeLock acquires the exclusive lock unless ctx is inside a transaction on this store
func (s *Store) writeLock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	courses          map[string]catalog.Course
	chapters         map[string]catalog.Chapter
	lessons          map[string]catalog.Lesson
	users            map[string]models.User
	chaptersByCourse map[string][]string
	lessonsByChapter map[string][]string
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		courses:          maps.Clone(s.courses),
		chapters:         maps.Clone(s.chapters),
		lessons:          maps.Clone(s.lessons),
		users:            maps.Clone(s.users),
		chaptersByCourse: cloneIndex(s.chaptersByCourse),
		lessonsByChapter: cloneIndex(s.lessonsByChapter),
	}
}

func (s *Store) restore(snap snapshot) {
	s.courses = snap.courses
	s.chapters = snap.chapters
	s.lessons = snap.lessons
	s.users = snap.users
	s.chaptersByCourse = snap.chaptersByCourse
	s.lessonsByChapter = snap.lessonsByChapter
}

func cloneIndex(index map[string][]string) map[string][]string {
	out := make(map[string][]string, len(index))
	for k, ids := range index {
		out[k] = slices.Clone(ids)
	}
	return out
}

// indexChapter places a chapter ID into its course index, keeping display order
func (s *Store) indexChapter(courseID, id string) {
	ids := append(removeID(s.chaptersByCourse[courseID], id), id)
	slices.SortStableFunc(ids, func(a, b string) int {
		return compareSiblings(s.chapters[a], s.chapters[b])
	})
	s.chaptersByCourse[courseID] = ids
}

func (s *Store) unindexChapter(courseID, id string) {
	ids := removeID(s.chaptersByCourse[courseID], id)
	if len(ids) == 0 {
		delete(s.chaptersByCourse, courseID)
		return
	}
	s.chaptersByCourse[courseID] = ids
}

// indexLesson places a lesson ID into its chapter index, keeping display order
func (s *Store) indexLesson(chapterID, id string) {
	ids := append(removeID(s.lessonsByChapter[chapterID], id), id)
	slices.SortStableFunc(ids, func(a, b string) int {
		return compareSiblings(s.lessons[a], s.lessons[b])
	})
	s.lessonsByChapter[chapterID] = ids
}

func (s *Store) unindexLesson(chapterID, id string) {
	ids := removeID(s.lessonsByChapter[chapterID], id)
	if len(ids) == 0 {
		delete(s.lessonsByChapter, chapterID)
		return
	}
	s.lessonsByChapter[chapterID] = ids
}

// deleteChapterLocked removes a chapter and its lessons
func (s *Store) deleteChapterLocked(id string) int {
	chapter, ok := s.chapters[id]
	if !ok {
		return 0
	}
	removed := 0
	for _, lessonID := range s.lessonsByChapter[id] {
		delete(s.lessons, lessonID)
		removed++
	}
	delete(s.lessonsByChapter, id)
	delete(s.chapters, id)
	s.unindexChapter(chapter.CourseID, id)
	return removed
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(x string) bool { return x == id })
}

func compareSiblings(a, b catalog.Ordered) int {
	switch {
	case catalog.SiblingLess(a, b):
		return -1
	case catalog.SiblingLess(b, a):
		return 1
	default:
		return 0
	}
}
