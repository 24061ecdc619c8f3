package testutil

import (
	"career_compass_backend/pkg/database"
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a fresh in-memory SQLite database with every table migrated and
// the assessment types seeded.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// a single connection keeps the shared in-memory database alive and
	// serialises transactions
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	if err := database.SeedAssessmentTypes(db); err != nil {
		tb.Fatalf("seed assessment types: %v", err)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func create(tb testing.TB, db *gorm.DB, what string, row interface{}) {
	tb.Helper()
	if err := db.WithContext(context.Background()).Create(row).Error; err != nil {
		tb.Fatalf("seed %s: %v", what, err)
	}
}

// SoftDelete sets is_deleted on the row with the given id.
func SoftDelete(tb testing.TB, db *gorm.DB, row interface{}, id uint) {
	tb.Helper()
	if err := db.Model(row).Where("id = ?", id).Update("is_deleted", true).Error; err != nil {
		tb.Fatalf("soft delete: %v", err)
	}
}
