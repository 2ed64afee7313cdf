// Package testutil provides shared fixtures for tests that need a wine list
// database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/pour-decisions/internal/model"
	"github.com/Veraticus/pour-decisions/internal/storage"
	"github.com/Veraticus/pour-decisions/internal/testutil/winelist"
)

// TestDB is a migrated in-memory wine list database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Wines   []model.WineRow
}

// SetupTestDB creates a migrated in-memory database seeded with wines.
// The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, winelist.New().WithSample().Build())
func SetupTestDB(t *testing.T, wines []model.WineRow) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(wines) > 0 {
		if err := store.ReplaceWines(ctx, wines); err != nil {
			t.Fatalf("failed to seed wines: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		Wines:   wines,
		t:       t,
	}
}

// SetupTestDBWithBuilder creates a test database from a configured builder.
func SetupTestDBWithBuilder(t *testing.T, configure func(*winelist.Builder) *winelist.Builder) *TestDB {
	t.Helper()

	builder := winelist.New()
	if configure != nil {
		builder = configure(builder)
	}
	return SetupTestDB(t, builder.Build())
}

// MustListWines returns the stored list or fails the test.
func (db *TestDB) MustListWines() []model.WineRow {
	db.t.Helper()

	wines, err := db.Storage.ListWines(context.Background())
	if err != nil {
		db.t.Fatalf("failed to list wines: %v", err)
	}
	return wines
}
