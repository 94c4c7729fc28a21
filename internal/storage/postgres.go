package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresStore is a pool-backed FlightStore for shared deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool and ensures the schema exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS flight_plans (
		batch      TEXT NOT NULL,
		position   INTEGER NOT NULL,
		acid       TEXT,
		record     JSONB NOT NULL,
		saved_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (batch, position)
	);

	CREATE INDEX IF NOT EXISTS idx_flight_plans_acid ON flight_plans(acid);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveBatch replaces the named batch's contents in one transaction.
func (s *PostgresStore) SaveBatch(ctx context.Context, batch string, records []json.RawMessage) (int, error) {
	if batch == "" {
		batch = DefaultBatch
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM flight_plans WHERE batch = $1`, batch); err != nil {
		return 0, fmt.Errorf("clear batch: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for i, record := range records {
		rows = append(rows, []any{batch, i, recordACID(record), string(record)})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"flight_plans"},
		[]string{"batch", "position", "acid", "record"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// LoadBatch returns the named batch's records in their saved order.
func (s *PostgresStore) LoadBatch(ctx context.Context, batch string) ([]json.RawMessage, error) {
	if batch == "" {
		batch = DefaultBatch
	}

	rows, err := s.pool.Query(ctx, `
		SELECT record FROM flight_plans WHERE batch = $1 ORDER BY position
	`, batch)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	records := []json.RawMessage{}
	for rows.Next() {
		var record json.RawMessage
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
