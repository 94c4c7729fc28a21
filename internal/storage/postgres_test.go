package storage

import (
	"context"
	"encoding/json"
	"os"
	"testing"
)

// setupTestPostgres creates a test database connection.
// Returns nil if no PostgreSQL connection is available.
func setupTestPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		user = "insight"
	}
	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		password = "insight"
	}
	database := os.Getenv("POSTGRES_DATABASE")
	if database == "" {
		database = "flight_insight"
	}

	pg, err := OpenPostgres(context.Background(), PostgresConfig{
		Host:     host,
		Port:     5432,
		User:     user,
		Password: password,
		Database: database,
	})
	if err != nil {
		return nil
	}
	return pg
}

func TestPostgresStore_SaveAndLoad(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer pg.Close()

	ctx := context.Background()
	records := testRecords()

	n, err := pg.SaveBatch(ctx, "pg_test", records)
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if n != len(records) {
		t.Errorf("saved count = %d, want %d", n, len(records))
	}

	loaded, err := pg.LoadBatch(ctx, "pg_test")
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("loaded %d records, want %d", len(loaded), len(records))
	}

	var probe struct {
		ACID string `json:"ACID"`
	}
	if err := json.Unmarshal(loaded[0], &probe); err != nil {
		t.Fatal(err)
	}
	if probe.ACID != "ACA101" {
		t.Errorf("first record ACID = %q, want ACA101", probe.ACID)
	}

	// Clean up the test batch.
	if _, err := pg.SaveBatch(ctx, "pg_test", nil); err != nil {
		t.Errorf("cleanup: %v", err)
	}
}

func TestPostgresStore_SaveReplacesBatch(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer pg.Close()

	ctx := context.Background()
	if _, err := pg.SaveBatch(ctx, "pg_replace_test", testRecords()); err != nil {
		t.Fatal(err)
	}
	if _, err := pg.SaveBatch(ctx, "pg_replace_test", testRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	loaded, err := pg.LoadBatch(ctx, "pg_replace_test")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Errorf("batch not replaced: %d records remain", len(loaded))
	}

	if _, err := pg.SaveBatch(ctx, "pg_replace_test", nil); err != nil {
		t.Errorf("cleanup: %v", err)
	}
}
