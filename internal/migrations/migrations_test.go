package migrations_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/database"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/migrations"
)

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	version, err := migrations.Run(ctx, db, slog.Default())
	if err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	// Verify all tables exist by querying sqlite_master.
	want := []string{"locations", "matches"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Run(ctx, db, slog.Default()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := migrations.Run(ctx, db, slog.Default()); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}
