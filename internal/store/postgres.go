package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kbzala12/Yt2026Ab/internal/config"
)

// PostgresStore wraps the database connection pool shared by all
// Postgres-backed collections.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore creates a new database connection
func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		cfg.MaxConns, cfg.MinConns,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Ping the database to verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{Pool: pool}, nil
}

// Close closes the database connection pool
func (s *PostgresStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Health checks if the database is healthy
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// PostgresCollection stores each record as a jsonb document keyed by
// id, one table per collection. Replace runs in a single transaction so
// the collection swap stays atomic.
type PostgresCollection[T any] struct {
	store *PostgresStore
	table string
}

// NewPostgresCollection creates the backing table if needed and returns
// the collection. The table name must be one of the fixed collection
// names; it is interpolated into DDL and never caller-supplied.
func NewPostgresCollection[T any](store *PostgresStore, table string) (*PostgresCollection[T], error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)
	`, table)

	if _, err := store.Pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("%w: create table %s: %v", ErrStorage, table, err)
	}

	return &PostgresCollection[T]{store: store, table: table}, nil
}

// Load reads the entire collection.
func (c *PostgresCollection[T]) Load(ctx context.Context) (map[string]T, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s`, c.table)

	rows, err := c.store.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStorage, c.table, err)
	}
	defer rows.Close()

	records := map[string]T{}
	for rows.Next() {
		var id string
		var rec T
		if err := rows.Scan(&id, &rec); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStorage, c.table, err)
		}
		records[id] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStorage, c.table, err)
	}

	return records, nil
}

// Replace overwrites the entire collection in one transaction.
func (c *PostgresCollection[T]) Replace(ctx context.Context, records map[string]T) error {
	tx, err := c.store.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin replace %s: %v", ErrStorage, c.table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, c.table)); err != nil {
		return fmt.Errorf("%w: clear %s: %v", ErrStorage, c.table, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, c.table)
	for id, rec := range records {
		if _, err := tx.Exec(ctx, insert, id, rec); err != nil {
			return fmt.Errorf("%w: insert into %s: %v", ErrStorage, c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit replace %s: %v", ErrStorage, c.table, err)
	}

	return nil
}
