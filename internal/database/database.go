package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool connection defaults
const (
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultMaxConnLifetime = 30 * time.Minute
	DefaultPingTimeout     = 5 * time.Second
)

// Pool is the subset of pgxpool.Pool the rest of the application relies on
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// NewPool creates a pgx connection pool and verifies connectivity
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	cfg.MaxConns = DefaultMaxConns
	cfg.MinConns = DefaultMinConns
	cfg.MaxConnLifetime = DefaultMaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
