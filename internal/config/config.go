package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends selectable at startup
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Storage
	StorageBackend string
	DatabaseURL    string
	TablePrefix    string
	AutoMigrate    bool
	SeedOnStart    bool

	// Auth
	JWTSecret    string
	JWTTTL       time.Duration
	JWKSURL      string // Optional external identity provider; overrides local HS256 verification
	AuthRequired bool

	// Redis (structure cache + login rate limit)
	RedisURL          string
	StructureCacheTTL time.Duration
	LoginRateLimit    int
	LoginRateWindow   time.Duration

	// Kafka (catalog change events)
	KafkaBrokers []string
	KafkaTopic   string

	// Uploads
	UploadDir      string
	UploadMaxBytes int64

	// Logging
	LogDir      string
	LogMaxFiles int
}

// Load reads configuration from the environment. Call godotenv.Load first to pick up .env files.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_TTL", time.Hour)
	v.SetDefault("AUTH_REQUIRED", true)
	v.SetDefault("STRUCTURE_CACHE_TTL", 5*time.Minute)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", time.Minute)
	v.SetDefault("KAFKA_TOPIC", "catalog.changes")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", int64(MaxUploadSize))
	v.SetDefault("LOG_MAX_FILES", 5)

	env := v.GetString("ENVIRONMENT")

	return &Config{
		Port:              v.GetString("PORT"),
		Environment:       env,
		CORSOrigins:       v.GetString("CORS_ORIGINS"),
		StorageBackend:    strings.ToLower(v.GetString("STORAGE_BACKEND")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		TablePrefix:       getTablePrefix(env, v.GetString("TABLE_PREFIX")),
		AutoMigrate:       v.GetBool("AUTO_MIGRATE"),
		SeedOnStart:       v.GetBool("SEED_ON_START"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		JWKSURL:           v.GetString("JWKS_URL"),
		AuthRequired:      v.GetBool("AUTH_REQUIRED"),
		RedisURL:          v.GetString("REDIS_URL"),
		StructureCacheTTL: v.GetDuration("STRUCTURE_CACHE_TTL"),
		LoginRateLimit:    v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindow:   v.GetDuration("LOGIN_RATE_WINDOW"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		UploadMaxBytes:    v.GetInt64("UPLOAD_MAX_BYTES"),
		LogDir:            v.GetString("LOG_DIR"),
		LogMaxFiles:       v.GetInt("LOG_MAX_FILES"),
	}
}

// IsProduction reports whether destructive admin operations must be blocked
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env, override string) string {
	if override != "" {
		return override
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

// splitList turns a comma separated env value into a trimmed list, dropping empty entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
