package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_collections (
	name TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresPool creates a new PostgreSQL connection pool.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: parse pg config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("storage: new pg pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: pg ping: %w", err)
	}

	return pool, nil
}

// PostgresStore keeps each collection as a JSONB row in kv_collections.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore ensures the table exists and returns the store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("storage: ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgTx struct {
	q      querier
	locked bool
}

func (t pgTx) LoadCollection(ctx context.Context, name Collection) ([]byte, error) {
	query := `SELECT payload::text FROM kv_collections WHERE name = $1`
	if t.locked {
		query += ` FOR UPDATE`
	}
	var payload string
	if err := t.q.QueryRow(ctx, query, string(name)).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(payload), nil
}

func (t pgTx) SaveCollection(ctx context.Context, name Collection, data []byte) error {
	_, err := t.q.Exec(ctx, `INSERT INTO kv_collections (name, payload, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		string(name), string(data))
	return err
}

func (t pgTx) DeleteCollection(ctx context.Context, names ...Collection) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, string(name))
	}
	_, err := t.q.Exec(ctx, `DELETE FROM kv_collections WHERE name = ANY($1)`, keys)
	return err
}

func (s *PostgresStore) LoadCollection(ctx context.Context, name Collection) ([]byte, error) {
	return pgTx{q: s.pool}.LoadCollection(ctx, name)
}

func (s *PostgresStore) SaveCollection(ctx context.Context, name Collection, data []byte) error {
	return pgTx{q: s.pool}.SaveCollection(ctx, name, data)
}

func (s *PostgresStore) DeleteCollection(ctx context.Context, names ...Collection) error {
	return pgTx{q: s.pool}.DeleteCollection(ctx, names...)
}

// WithTx executes fn inside a repeatable-read transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, pgTx{q: tx, locked: true}); err != nil {
		return translatePgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translatePgError(fmt.Errorf("storage: commit tx: %w", err))
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return ErrConflict
	}
	return err
}
