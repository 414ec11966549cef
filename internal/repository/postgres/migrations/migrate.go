package migrations

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Migrator creates and drops the prefixed tables
type Migrator struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects gorm to the database. Tables are named <prefix><plural>,
// matching postgres.NewTableNames.
func Open(databaseURL, tablePrefix string, logger *slog.Logger) (*Migrator, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{TablePrefix: tablePrefix},
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}
	return &Migrator{db: db, logger: logger}, nil
}

// Migrate creates missing tables, columns, indexes and cascade foreign keys
func (m *Migrator) Migrate() error {
	if err := m.db.AutoMigrate(&User{}, &Course{}, &Chapter{}, &Lesson{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	m.logger.Info("schema migrated")
	return nil
}

// DropAll drops every table, children first
func (m *Migrator) DropAll() error {
	if err := m.db.Migrator().DropTable(&Lesson{}, &Chapter{}, &Course{}, &User{}); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	m.logger.Warn("all tables dropped")
	return nil
}

// Close releases the underlying connection
func (m *Migrator) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
