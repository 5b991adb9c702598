package database

import (
	"fmt"
	"time"

	"funddesk/internal/logger"
	"funddesk/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database and runs migrations.
func Open(driver, dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		logger.Infof("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		db, err = open(driver, dsn)
		if err == nil {
			logger.Infof("connected to DB successfully")
			break
		}

		logger.Errorf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect after %d attempts: %w", maxAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", driver)
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.PrivateFund{},
		&models.DueDiligence{},
		&models.DueDiligenceComment{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
