package service

import (
	"log/slog"

	"coursepanel/internal/domain/services"
	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/repository"
	"coursepanel/internal/seed"
	"coursepanel/internal/service/catalog"
)

// Services holds every application service
type Services struct {
	Users     services.UserService
	Auth      services.AuthService
	Courses   catalogSvc.CourseService
	Chapters  catalogSvc.ChapterService
	Lessons   catalogSvc.LessonService
	Structure catalogSvc.StructureService
	Database  services.DatabaseService
	Seeder    *seed.Seeder
}

// SetupServices wires the services over storage.
// cache and publisher receive catalog change notifications.
func SetupServices(
	storage *repository.Storage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	cache catalogSvc.StructureCache,
	publisher catalogSvc.ChangePublisher,
	logger *slog.Logger,
) *Services {
	changes := catalog.NewChangeRecorder(cache, publisher, logger)
	validator := catalog.NewResourceValidator(storage.Courses, storage.Chapters)
	sanitizer := catalog.NewHTMLSanitizer()

	svc := &Services{
		Users:     NewUserService(storage.Users, hasher, logger),
		Auth:      NewAuthService(storage.Users, hasher, tokens, logger),
		Courses:   catalog.NewCourseService(storage.Courses, storage.Chapters, storage.Lessons, storage.TxManager, sanitizer, changes, logger),
		Chapters:  catalog.NewChapterService(storage.Chapters, storage.Lessons, storage.TxManager, validator, changes, logger),
		Lessons:   catalog.NewLessonService(storage.Lessons, storage.Chapters, storage.TxManager, validator, sanitizer, changes, logger),
		Structure: catalog.NewStructureService(storage.Courses, storage.Chapters, storage.Lessons, cache, logger),
	}

	svc.Seeder = seed.NewSeeder(svc.Users, svc.Courses, svc.Chapters, svc.Lessons, storage.Courses, logger)
	svc.Database = NewDatabaseService(storage.Backend, DatabaseRepositories{
		Users:    storage.Users,
		Courses:  storage.Courses,
		Chapters: storage.Chapters,
		Lessons:  storage.Lessons,
	}, storage.TxManager, svc.Seeder, logger)

	return svc
}
