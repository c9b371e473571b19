package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/attendance-service/internal/config"
	"github.com/SAP-F-2025/attendance-service/internal/models"
)

// InitDatabase opens the PostgreSQL connection and runs migrations.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Environment == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
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

	if err := MigrateModels(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateModels applies the schema for all entities.
func MigrateModels(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.AttendanceRecord{},
		&models.AttendanceLog{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}
	return nil
}
