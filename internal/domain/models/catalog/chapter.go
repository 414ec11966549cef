package catalog

import "time"

type Chapter struct {
	ID          string    `json:"id" db:"id"`
	CourseID    string    `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// SiblingKey implements Ordered
func (c Chapter) SiblingKey() (int, time.Time, string) { return c.Order, c.CreatedAt, c.ID }
