package seed_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"coursepanel/internal/auth"
	"coursepanel/internal/events"
	"coursepanel/internal/repository"
	"coursepanel/internal/repository/cache"
	"coursepanel/internal/seed"
	"coursepanel/internal/service"
)

func TestLoadFixtures(t *testing.T) {
	fixtures, err := seed.LoadFixtures()
	if err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}
	if len(fixtures.Users) != 3 || len(fixtures.Courses) != 5 {
		t.Fatalf("expected 3 users and 5 courses, got %d and %d", len(fixtures.Users), len(fixtures.Courses))
	}
	first := fixtures.Courses[0]
	if len(first.Chapters) != 3 || len(first.Chapters[0].Lessons) != 4 {
		t.Errorf("unexpected first course shape: %d chapters", len(first.Chapters))
	}
	if first.Chapters[0].Lessons[3].Order == nil || *first.Chapters[0].Lessons[3].Order != 400 {
		t.Error("expected fourth lesson at order 400")
	}
}

func TestSeeder_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage := repository.NewMemoryStorage()

	svc := service.SetupServices(
		storage,
		auth.NewPasswordHasher(),
		auth.NewTokenManager("test-secret", time.Hour),
		cache.NoopStructureCache{},
		events.NewLogPublisher(logger),
		logger,
	)

	seeded, err := svc.Seeder.SeedIfEmpty(ctx)
	if err != nil || !seeded {
		t.Fatalf("first SeedIfEmpty: seeded=%v err=%v", seeded, err)
	}

	courses, _ := storage.Courses.Count(ctx)
	chapters, _ := storage.Chapters.Count(ctx)
	lessons, _ := storage.Lessons.Count(ctx)
	if courses != 5 || chapters != 3 || lessons != 9 {
		t.Errorf("expected 5/3/9 courses/chapters/lessons, got %d/%d/%d", courses, chapters, lessons)
	}

	users, _ := storage.Users.List(ctx)
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}

	seeded, err = svc.Seeder.SeedIfEmpty(ctx)
	if err != nil || seeded {
		t.Errorf("second SeedIfEmpty: seeded=%v err=%v", seeded, err)
	}
}
