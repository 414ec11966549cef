package config

const (
	// MaxTitleLength is the maximum length for course, chapter and lesson titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxDescriptionLength caps course and chapter descriptions.
	MaxDescriptionLength = 5000

	// MaxUsernameLength is the maximum length for usernames.
	MaxUsernameLength = 64

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 5

	// DefaultPageSize is used when a list request has no usable limit.
	DefaultPageSize = 10

	// MaxPageSize caps the limit query parameter.
	MaxPageSize = 100

	// ChapterOrderStep is the gap between auto-assigned chapter orders.
	ChapterOrderStep = 1

	// LessonOrderStep is the gap between auto-assigned lesson orders.
	// Wider than chapters so lessons can be inserted between neighbours
	// without renumbering.
	LessonOrderStep = 100

	// MaxUploadSize is the per-file upload limit (5MB).
	MaxUploadSize = 5 << 20

	// MaxUploadFiles is the maximum number of files in one multi-upload.
	MaxUploadFiles = 10
)
