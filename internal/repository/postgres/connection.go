package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coursepanel/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names
type TableNames struct {
	Users    string
	Courses  string
	Chapters string
	Lessons  string
}

// NewTableNames creates table names with the given prefix.
// Must match the names produced by the migrations package for the same prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:    fmt.Sprintf("%susers", prefix),
		Courses:  fmt.Sprintf("%scourses", prefix),
		Chapters: fmt.Sprintf("%schapters", prefix),
		Lessons:  fmt.Sprintf("%slessons", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies connectivity.
//
// Port 6543 is treated as a transaction-mode PgBouncer, which cannot hold
// prepared statements; those connections use QueryExecModeCacheDescribe
// unless default_query_exec_mode was set explicitly in the URL.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
