// Package dbtest opens throwaway migrated SQLite databases for repository tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"random-coffee/internal/config"
	"random-coffee/internal/database"
	"random-coffee/internal/database/migration"
	"random-coffee/internal/database/sqlite"
)

func NewSQLite(t *testing.T) database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := (migration.Runner{Dialect: config.DriverSQLite}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
