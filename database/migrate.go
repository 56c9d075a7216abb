package database

import (
	"fmt"

	"shiftscore_backend/internal/config"
	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm initializes GORM with the DSN from config.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates every model.
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserSubscription{},
		&models.SullyUsage{},
		&models.Facility{},
		&models.JobListing{},
	)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
