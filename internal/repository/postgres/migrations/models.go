package migrations

import "time"

// Table definitions used only for schema migration. Repositories query these
// tables through pgx; the column names here are the contract they rely on.

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:64;not null;uniqueIndex"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         string    `gorm:"size:20;not null;default:viewer"`
	Status       string    `gorm:"size:20;not null;default:active"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type Course struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Status      string    `gorm:"size:20;not null;default:draft;index"`
	Cover       string    `gorm:"type:text;not null;default:''"`
	Price       *float64  `gorm:"type:numeric(10,2)"`
	PricingType string    `gorm:"size:20;not null;default:free"`
	Content     *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null;index"`
	Chapters    []Chapter `gorm:"constraint:OnDelete:CASCADE"`
}

type Chapter struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	CourseID    string    `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	SortOrder   int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Lessons     []Lesson  `gorm:"constraint:OnDelete:CASCADE"`
}

type Lesson struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ChapterID string    `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"size:255;not null"`
	Content   string    `gorm:"type:text;not null;default:''"`
	Duration  int       `gorm:"not null;default:0"`
	Type      string    `gorm:"size:20;not null;default:video"`
	VideoURL  *string   `gorm:"type:text"`
	SortOrder int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
