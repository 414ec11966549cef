package main

import (
	"context"
	"flag"
	"log"

	"coursepanel/internal/auth"
	"coursepanel/internal/config"
	"coursepanel/internal/events"
	"coursepanel/internal/repository"
	"coursepanel/internal/repository/cache"
	"coursepanel/internal/repository/postgres/migrations"
	"coursepanel/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't load fixtures")
	clearData := flag.Bool("clear-data", false, "Delete all users, courses, chapters and lessons (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.IsProduction() && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	if cfg.StorageBackend != config.BackendPostgres {
		log.Fatalf("Seeding needs STORAGE_BACKEND=postgres (the memory backend seeds itself on server start)")
	}

	// Setup logger
	logger := config.NewLogger(cfg.Environment, nil)

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	migrator, err := migrations.Open(cfg.DatabaseURL, cfg.TablePrefix, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := migrator.DropAll(); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run migrations to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := migrator.Migrate(); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	migrator.Close()
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Schema is current; skip the second migration pass in OpenStorage
	cfg.AutoMigrate = false

	ctx := context.Background()
	storage, err := repository.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	if *clearData {
		log.Println("🧹 Deleting all catalog data and users...")
		err := storage.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := storage.Courses.DeleteAll(txCtx); err != nil {
				return err
			}
			return storage.Users.DeleteAll(txCtx)
		})
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	services := service.SetupServices(
		storage,
		auth.NewPasswordHasher(),
		auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		cache.NoopStructureCache{},
		events.NewLogPublisher(logger),
		logger,
	)

	// Reset wipes existing rows before loading fixtures
	log.Println("📝 Loading fixtures...")
	status, err := services.Database.Reset(ctx)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("🎉 Seeding complete! users=%d courses=%d chapters=%d lessons=%d",
		status.Users, status.Courses, status.Chapters, status.Lessons)
}
