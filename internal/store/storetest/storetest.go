// Package storetest opens throwaway in-memory databases for tests.
package storetest

import (
	"fmt"
	"testing"

	"kaskelas/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated Store over a private in-memory SQLite database.
func Open(t testing.TB) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:kaskelas-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(store.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}
