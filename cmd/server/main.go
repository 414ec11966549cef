package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"coursepanel/internal/auth"
	"coursepanel/internal/config"
	catalogSvc "coursepanel/internal/domain/services/catalog"
	"coursepanel/internal/events"
	"coursepanel/internal/handler"
	"coursepanel/internal/middleware"
	"coursepanel/internal/repository"
	"coursepanel/internal/repository/cache"
	"coursepanel/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging, optionally teed into LOG_DIR
	var logFile *os.File
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		logFile = f
		defer logFile.Close()
	}

	var logger *slog.Logger
	if logFile != nil {
		logger = config.NewLogger(cfg.Environment, logFile)
	} else {
		logger = config.NewLogger(cfg.Environment, nil)
	}
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
	)

	ctx := context.Background()

	// Storage backend (memory or postgres)
	storage, err := repository.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	// Redis backs the structure cache and the login rate limit; both degrade to no-ops without it
	var structureCache catalogSvc.StructureCache = cache.NoopStructureCache{}
	var rateCounter middleware.RateCounter
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		structureCache = cache.NewRedisStructureCache(redisClient, cfg.StructureCacheTTL)
		rateCounter = cache.NewRedisRateCounter(redisClient)
		logger.Info("redis connected", "structure_cache_ttl", cfg.StructureCacheTTL)
	} else {
		logger.Warn("REDIS_URL not set - structure cache and login rate limit disabled")
	}

	// Catalog change events go to kafka when brokers are configured
	var publisher catalogSvc.ChangePublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("kafka publisher ready", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		publisher = events.NewLogPublisher(logger)
	}

	// Local HS256 tokens are always issued on login; with an external IdP both kinds are accepted
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	var verifier auth.TokenVerifier = tokenManager
	if cfg.JWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		verifier = auth.NewChainVerifier(tokenManager, jwksVerifier)
	}
	defer verifier.Close()

	// Create services
	services := service.SetupServices(storage, auth.NewPasswordHasher(), tokenManager, structureCache, publisher, logger)

	uploadService, err := service.NewUploadService(cfg.UploadDir, cfg.UploadMaxBytes, logger)
	if err != nil {
		log.Fatalf("Failed to setup uploads: %v", err)
	}

	if cfg.SeedOnStart {
		seeded, err := services.Seeder.SeedIfEmpty(ctx)
		if err != nil {
			log.Fatalf("Failed to seed store: %v", err)
		}
		if seeded {
			logger.Info("empty store seeded with fixtures")
		}
	}

	logger.Info("services initialized")

	// Create handlers
	handlers := &handler.Handlers{
		Auth:       handler.NewAuthHandler(services.Auth, logger),
		Users:      handler.NewUserHandler(services.Users, logger),
		Courses:    handler.NewCourseHandler(services.Courses, services.Structure, logger),
		Chapters:   handler.NewChapterHandler(services.Chapters, logger),
		Lessons:    handler.NewLessonHandler(services.Lessons, logger),
		Uploads:    handler.NewUploadHandler(uploadService, cfg.UploadMaxBytes, logger),
		Database:   handler.NewDatabaseHandler(services.Database, !cfg.IsProduction(), logger),
		LoginLimit: middleware.RateLimit(rateCounter, "login", cfg.LoginRateLimit, cfg.LoginRateWindow, logger),
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux)

	// Uploaded images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Auth → Routes
	if cfg.AuthRequired {
		public := middleware.PublicPaths("POST /api/auth/login", "GET /health")
		h = middleware.AuthMiddleware(verifier, public, logger)(h)
	} else {
		logger.Warn("AUTH_REQUIRED=false - API is open to unauthenticated requests")
		h = middleware.OptionalAuth(verifier)(h)
	}
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
