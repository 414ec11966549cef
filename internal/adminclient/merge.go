package adminclient

import (
	catalog "coursepanel/internal/domain/models/catalog"
)

// The merge helpers apply one server response to a local structure.
// Each finds the entity by id at its nesting level, replaces or splices it,
// then re-sorts the affected siblings by order.

func mergeCourse(s *catalog.CourseStructure, course catalog.Course) {
	if s.ID != course.ID {
		return
	}
	s.Course = course
}

func findChapter(s *catalog.CourseStructure, id string) int {
	for i := range s.Chapters {
		if s.Chapters[i].ID == id {
			return i
		}
	}
	return -1
}

func mergeChapter(s *catalog.CourseStructure, chapter catalog.Chapter) {
	if chapter.CourseID != s.ID {
		removeChapter(s, chapter.ID)
		return
	}

	if i := findChapter(s, chapter.ID); i >= 0 {
		s.Chapters[i].Chapter = chapter
	} else {
		s.Chapters = append(s.Chapters, catalog.ChapterWithLessons{
			Chapter: chapter,
			Lessons: []catalog.Lesson{},
		})
	}
	catalog.SortSiblings(s.Chapters)
}

func removeChapter(s *catalog.CourseStructure, id string) {
	if i := findChapter(s, id); i >= 0 {
		s.Chapters = append(s.Chapters[:i], s.Chapters[i+1:]...)
	}
}

// mergeLesson places lesson under its chapter, removing it from any chapter
// it previously belonged to. A lesson whose chapter is not mirrored is dropped.
func mergeLesson(s *catalog.CourseStructure, lesson catalog.Lesson) {
	for i := range s.Chapters {
		if s.Chapters[i].ID != lesson.ChapterID {
			s.Chapters[i].Lessons = spliceLesson(s.Chapters[i].Lessons, lesson.ID)
		}
	}

	i := findChapter(s, lesson.ChapterID)
	if i < 0 {
		return
	}

	ch := &s.Chapters[i]
	replaced := false
	for j := range ch.Lessons {
		if ch.Lessons[j].ID == lesson.ID {
			ch.Lessons[j] = lesson
			replaced = true
			break
		}
	}
	if !replaced {
		ch.Lessons = append(ch.Lessons, lesson)
	}
	catalog.SortSiblings(ch.Lessons)
}

func removeLesson(s *catalog.CourseStructure, id string) {
	for i := range s.Chapters {
		s.Chapters[i].Lessons = spliceLesson(s.Chapters[i].Lessons, id)
	}
}

func spliceLesson(lessons []catalog.Lesson, id string) []catalog.Lesson {
	for i := range lessons {
		if lessons[i].ID == id {
			return append(lessons[:i], lessons[i+1:]...)
		}
	}
	return lessons
}

// cloneStructure deep-copies the chapter and lesson slices
func cloneStructure(s *catalog.CourseStructure) *catalog.CourseStructure {
	out := &catalog.CourseStructure{
		Course:   s.Course,
		Chapters: make([]catalog.ChapterWithLessons, len(s.Chapters)),
	}
	for i, ch := range s.Chapters {
		out.Chapters[i] = catalog.ChapterWithLessons{
			Chapter: ch.Chapter,
			Lessons: append([]catalog.Lesson{}, ch.Lessons...),
		}
	}
	return out
}
