package catalog

import "time"

// Course statuses
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
)

// Pricing types
const (
	PricingFree = "free"
	PricingPaid = "paid"
)

type Course struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Cover       string    `json:"cover" db:"cover"`
	Price       *float64  `json:"price" db:"price"`
	PricingType string    `json:"pricingType" db:"pricing_type"`
	Content     *string   `json:"content,omitempty" db:"content"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CourseFilter narrows a course listing. Offset/Limit apply after filtering.
type CourseFilter struct {
	Status string
	Search string
	Offset int
	Limit  int // 0 means no limit
}
