package database

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studioworks/internal/config"
)

// OpenTest returns a migrated in-memory sqlite database closed at test cleanup.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := Open(&config.DatabaseConfig{URL: ":memory:"}, zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
