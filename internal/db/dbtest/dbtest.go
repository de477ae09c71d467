// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"fintrack/internal/db"
)

// New returns a migrated in-memory SQLite database that is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(context.Background(), gormDB, "auto"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}
