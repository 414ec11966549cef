package catalog

import "time"

// Change event types
const (
	EventCourseCreated     = "course.created"
	EventCourseUpdated     = "course.updated"
	EventCourseDeleted     = "course.deleted"
	EventChapterCreated    = "chapter.created"
	EventChapterUpdated    = "chapter.updated"
	EventChapterDeleted    = "chapter.deleted"
	EventChaptersReordered = "chapters.reordered"
	EventLessonCreated     = "lesson.created"
	EventLessonUpdated     = "lesson.updated"
	EventLessonDeleted     = "lesson.deleted"
	EventLessonsReordered  = "lessons.reordered"
)

// ChangeEvent describes one catalog mutation. CourseID is the partition key.
type ChangeEvent struct {
	Type     string    `json:"type"`
	CourseID string    `json:"courseId"`
	IDs      []string  `json:"ids"`
	At       time.Time `json:"at"`
}
