// Package testutil opens throwaway databases for repository and service tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	cartpg "github.com/dwikikusuma/flowmazon/internal/cart/infra/postgres"
	catalogpg "github.com/dwikikusuma/flowmazon/internal/catalog/infra/postgres"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB returns a private in-memory SQLite database with the catalog and cart
// schemas migrated. Each call gets its own database.
//
// A single connection is kept open: the in-memory database lives as long as
// that connection, and concurrent callers queue on it rather than hitting
// SQLITE_LOCKED. Statement-level atomicity is unaffected.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	if err := catalogpg.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate catalog: %v", err)
	}
	if err := cartpg.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate cart: %v", err)
	}
	return db
}
