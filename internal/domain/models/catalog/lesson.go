package catalog

import "time"

// Lesson types
const (
	LessonTypeVideo    = "video"
	LessonTypeDocument = "document"
	LessonTypeText     = "text"
	LessonTypeQuiz     = "quiz"
)

// LessonTypes lists every accepted lesson type
var LessonTypes = []interface{}{LessonTypeVideo, LessonTypeDocument, LessonTypeText, LessonTypeQuiz}

type Lesson struct {
	ID        string    `json:"id" db:"id"`
	ChapterID string    `json:"chapterId" db:"chapter_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Duration  int       `json:"duration" db:"duration"` // minutes
	Type      string    `json:"type" db:"type"`
	VideoURL  *string   `json:"videoUrl,omitempty" db:"video_url"`
	Order     int       `json:"order" db:"sort_order"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SiblingKey implements Ordered
func (l Lesson) SiblingKey() (int, time.Time, string) { return l.Order, l.CreatedAt, l.ID }
