package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/eventease/campus-backend/config"
	"github.com/eventease/campus-backend/internal/auditlog"
)

// DSN builds the postgres connection string from the DB_* settings.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
}

// Connect opens the postgres pool and runs the migrations for persisted models.
func Connect(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("🔄 Running database migrations...")
	if err := db.AutoMigrate(&auditlog.AuditLog{}); err != nil {
		return nil, fmt.Errorf("DB AutoMigrate failed: %w", err)
	}
	logger.Info().Msg("✅ Database migrations completed")
	return db, nil
}
