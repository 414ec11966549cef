// Package repository selects and opens the storage backend.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"coursepanel/internal/config"
	"coursepanel/internal/domain/repositories"
	catalogRepo "coursepanel/internal/domain/repositories/catalog"
	"coursepanel/internal/repository/memory"
	"coursepanel/internal/repository/postgres"
	postgresCatalog "coursepanel/internal/repository/postgres/catalog"
	"coursepanel/internal/repository/postgres/migrations"
)

// Storage holds the repositories of the active backend
type Storage struct {
	Backend   string
	Users     repositories.UserRepository
	Courses   catalogRepo.CourseRepository
	Chapters  catalogRepo.ChapterRepository
	Lessons   catalogRepo.LessonRepository
	TxManager repositories.TransactionManager

	close func()
}

// Close releases backend resources
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewMemoryStorage returns an empty in-process store
func NewMemoryStorage() *Storage {
	store := memory.NewStore()
	return &Storage{
		Backend:   config.BackendMemory,
		Users:     memory.NewUserRepository(store),
		Courses:   memory.NewCourseRepository(store),
		Chapters:  memory.NewChapterRepository(store),
		Lessons:   memory.NewLessonRepository(store),
		TxManager: memory.NewTransactionManager(store),
	}
}

// OpenStorage opens the backend named by cfg.StorageBackend.
// For postgres the schema is migrated first when cfg.AutoMigrate is set.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory, "":
		logger.Info("using in-memory storage")
		return NewMemoryStorage(), nil
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}

	if cfg.AutoMigrate {
		if err := Migrate(cfg, logger); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"table_prefix", cfg.TablePrefix,
		"max_conns", pool.Config().MaxConns,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	return &Storage{
		Backend:   config.BackendPostgres,
		Users:     postgres.NewUserRepository(repoConfig),
		Courses:   postgresCatalog.NewCourseRepository(repoConfig),
		Chapters:  postgresCatalog.NewChapterRepository(repoConfig),
		Lessons:   postgresCatalog.NewLessonRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, logger),
		close:     pool.Close,
	}, nil
}

// Migrate brings the postgres schema up to date
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	migrator, err := migrations.Open(cfg.DatabaseURL, cfg.TablePrefix, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Migrate()
}
