package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Simplici0/glassworks/internal/db"
	"github.com/Simplici0/glassworks/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, DefaultConfig())
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 6 {
				t.Fatalf("expected 6 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM grinding_types`, nil, 6)
	assertCount(t, database, `SELECT COUNT(*) FROM grinding_types WHERE code = ? AND price_per_meter = 15000`, "4c", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM grinding_types WHERE code = ? AND price_per_meter = 0`, "none", 1)
}

func TestRunKeepsOperatorPrices(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "seed-keep.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO grinding_types (code, name, price_per_meter) VALUES ('4c', 'Mài 4 cạnh', 22000)`); err != nil {
		t.Fatalf("insert custom grinding type: %v", err)
	}

	stats, err := Run(context.Background(), database, DefaultConfig())
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 5 {
		t.Fatalf("expected 5 inserts, got %d", stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM grinding_types WHERE code = ? AND price_per_meter = 22000`, "4c", 1)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d for query %q, got %d", expected, query, count)
	}
}
