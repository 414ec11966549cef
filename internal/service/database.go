package service

import (
	"context"
	"fmt"
	"log/slog"

	"coursepanel/internal/domain/repositories"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	"coursepanel/internal/domain/services"
)

// Seeder loads fixture data into an empty store
type Seeder interface {
	Seed(ctx context.Context) error
}

// DatabaseRepositories groups the repositories the database service counts and wipes
type DatabaseRepositories struct {
	Users    repositories.UserRepository
	Courses  catalogRepo.CourseRepository
	Chapters catalogRepo.ChapterRepository
	Lessons  catalogRepo.LessonRepository
}

// databaseService implements the DatabaseService interface
type databaseService struct {
	backend   string
	repos     DatabaseRepositories
	txManager repositories.TransactionManager
	seeder    Seeder
	logger    *slog.Logger
}

// NewDatabaseService creates a new database service. backend names the active store in status reports.
func NewDatabaseService(
	backend string,
	repos DatabaseRepositories,
	txManager repositories.TransactionManager,
	seeder Seeder,
	logger *slog.Logger,
) services.DatabaseService {
	return &databaseService{
		backend:   backend,
		repos:     repos,
		txManager: txManager,
		seeder:    seeder,
		logger:    logger,
	}
}

// Reset wipes every entity and loads the seed fixtures
func (s *databaseService) Reset(ctx context.Context) (*services.DatabaseStatus, error) {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.repos.Courses.DeleteAll(txCtx); err != nil {
			return err
		}
		return s.repos.Users.DeleteAll(txCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("wipe store: %w", err)
	}

	if err := s.seeder.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("database reset",
		"backend", s.backend,
		"users", status.Users,
		"courses", status.Courses,
		"chapters", status.Chapters,
		"lessons", status.Lessons,
	)

	return status, nil
}

// Status reports entity counts of the active store
func (s *databaseService) Status(ctx context.Context) (*services.DatabaseStatus, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.repos.Courses.Count(ctx)
	if err != nil {
		return nil, err
	}
	chapters, err := s.repos.Chapters.Count(ctx)
	if err != nil {
		return nil, err
	}
	lessons, err := s.repos.Lessons.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &services.DatabaseStatus{
		Backend:  s.backend,
		Users:    len(users),
		Courses:  courses,
		Chapters: chapters,
		Lessons:  lessons,
	}, nil
}
