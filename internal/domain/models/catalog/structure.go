package catalog

// CourseStructure is a course with its chapters and their lessons nested in display order
type CourseStructure struct {
	Course
	Chapters []ChapterWithLessons `json:"chapters"`
}

// ChapterWithLessons is a chapter with its lessons in display order
type ChapterWithLessons struct {
	Chapter
	Lessons []Lesson `json:"lessons"`
}
