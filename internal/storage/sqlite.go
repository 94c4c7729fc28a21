package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a single-file FlightStore for local use.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite flight store at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS flight_plans (
		batch     TEXT NOT NULL,
		position  INTEGER NOT NULL,
		acid      TEXT,
		record    TEXT NOT NULL,
		saved_at  TEXT DEFAULT (datetime('now')),
		PRIMARY KEY (batch, position)
	);

	CREATE INDEX IF NOT EXISTS idx_flight_plans_acid ON flight_plans(acid);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveBatch replaces the named batch with the given records inside one
// transaction. The previous contents are dropped, like the upstream
// save-over-the-file behavior.
func (s *SQLiteStore) SaveBatch(ctx context.Context, batch string, records []json.RawMessage) (int, error) {
	if batch == "" {
		batch = DefaultBatch
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_plans WHERE batch = ?`, batch); err != nil {
		return 0, fmt.Errorf("clear batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flight_plans (batch, position, acid, record)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, record := range records {
		if _, err := stmt.ExecContext(ctx, batch, i, recordACID(record), string(record)); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// LoadBatch returns the named batch's records in their saved order.
func (s *SQLiteStore) LoadBatch(ctx context.Context, batch string) ([]json.RawMessage, error) {
	if batch == "" {
		batch = DefaultBatch
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM flight_plans WHERE batch = ? ORDER BY position
	`, batch)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, json.RawMessage(record))
	}
	return records, rows.Err()
}

// recordACID pulls the ACID out of a raw record for indexing; empty when
// the record has none.
func recordACID(record json.RawMessage) string {
	var probe struct {
		ACID string `json:"ACID"`
	}
	if err := json.Unmarshal(record, &probe); err != nil {
		return ""
	}
	return probe.ACID
}
