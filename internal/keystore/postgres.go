package keystore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresKV implements KV on a single key/value table, for deployments
// without Redis.
type PostgresKV struct {
	db *sql.DB
}

// NewPostgresKV opens the database, verifies connectivity, and ensures the
// kv table exists.
func NewPostgresKV(ctx context.Context, databaseURL string) (*PostgresKV, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(20)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS talentdesk_kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("ensure kv table: %w", err)
	}

	return &PostgresKV{db: db}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT v FROM talentdesk_kv WHERE k = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO talentdesk_kv (k, v, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	for _, key := range keys {
		if _, err := p.db.ExecContext(ctx, `DELETE FROM talentdesk_kv WHERE k = $1`, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	return nil
}

func (p *PostgresKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT k FROM talentdesk_kv WHERE k LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (p *PostgresKV) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresKV) Close() error {
	return p.db.Close()
}
