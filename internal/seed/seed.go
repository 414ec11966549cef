package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	"coursepanel/internal/domain/services"
	catalogSvc "coursepanel/internal/domain/services/catalog"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the demo data set loaded into an empty store
type Fixtures struct {
	Users   []UserFixture   `yaml:"users"`
	Courses []CourseFixture `yaml:"courses"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Status   string `yaml:"status"`
}

type CourseFixture struct {
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Status      string           `yaml:"status"`
	Cover       string           `yaml:"cover"`
	Chapters    []ChapterFixture `yaml:"chapters"`
}

type ChapterFixture struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Order       *int            `yaml:"order"`
	Lessons     []LessonFixture `yaml:"lessons"`
}

type LessonFixture struct {
	Title    string  `yaml:"title"`
	Content  string  `yaml:"content"`
	Duration int     `yaml:"duration"`
	Type     string  `yaml:"type"`
	VideoURL *string `yaml:"video_url"`
	Order    *int    `yaml:"order"`
}

// LoadFixtures parses the embedded fixture file
func LoadFixtures() (*Fixtures, error) {
	var fixtures Fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}
	return &fixtures, nil
}

// Seeder loads fixtures through the service layer so seeded data
// passes the same validation, ordering and hashing as API writes
type Seeder struct {
	users      services.UserService
	courses    catalogSvc.CourseService
	chapters   catalogSvc.ChapterService
	lessons    catalogSvc.LessonService
	courseRepo catalogRepo.CourseRepository
	logger     *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	users services.UserService,
	courses catalogSvc.CourseService,
	chapters catalogSvc.ChapterService,
	lessons catalogSvc.LessonService,
	courseRepo catalogRepo.CourseRepository,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:      users,
		courses:    courses,
		chapters:   chapters,
		lessons:    lessons,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// Seed loads every fixture. It does not clear existing data.
func (s *Seeder) Seed(ctx context.Context) error {
	fixtures, err := LoadFixtures()
	if err != nil {
		return err
	}

	for _, u := range fixtures.Users {
		_, err := s.users.CreateUser(ctx, &services.CreateUserRequest{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
			Status:   u.Status,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	var chapterCount, lessonCount int
	for _, c := range fixtures.Courses {
		course, err := s.courses.CreateCourse(ctx, &catalogSvc.CreateCourseRequest{
			Title:       c.Title,
			Description: c.Description,
			Status:      c.Status,
			Cover:       c.Cover,
		})
		if err != nil {
			return fmt.Errorf("seed course %q: %w", c.Title, err)
		}

		for _, ch := range c.Chapters {
			chapter, err := s.chapters.CreateChapter(ctx, &catalogSvc.CreateChapterRequest{
				CourseID:    course.ID,
				Title:       ch.Title,
				Description: ch.Description,
				Order:       ch.Order,
			})
			if err != nil {
				return fmt.Errorf("seed chapter %q: %w", ch.Title, err)
			}
			chapterCount++

			for _, l := range ch.Lessons {
				_, err := s.lessons.CreateLesson(ctx, &catalogSvc.CreateLessonRequest{
					ChapterID: chapter.ID,
					Title:     l.Title,
					Content:   l.Content,
					Duration:  l.Duration,
					Type:      l.Type,
					VideoURL:  l.VideoURL,
					Order:     l.Order,
				})
				if err != nil {
					return fmt.Errorf("seed lesson %q: %w", l.Title, err)
				}
				lessonCount++
			}
		}
	}

	s.logger.Info("fixtures seeded",
		"users", len(fixtures.Users),
		"courses", len(fixtures.Courses),
		"chapters", chapterCount,
		"lessons", lessonCount,
	)

	return nil
}

// SeedIfEmpty seeds only when the store holds no courses. Reports whether seeding ran.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := s.courseRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.logger.Debug("store not empty, skipping seed", "courses", count)
		return false, nil
	}
	return true, s.Seed(ctx)
}
