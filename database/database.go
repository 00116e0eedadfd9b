package database

import (
	"log/slog"
	"os"

	"kaskelas/config"
	"kaskelas/internal/store"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.DB_URL
	if dsn == "" {
		slog.Error("DB_URL not set")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	DB = db

	if err := DB.AutoMigrate(store.Models()...); err != nil {
		slog.Error("auto-migrate failed", "error", err)
		os.Exit(1)
	}

	slog.Info("connected and migrated")
}
