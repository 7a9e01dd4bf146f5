package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns = 20
	defaultMinConns = 2
)

// Connect opens the shared pool backing the game store. Every player
// action is one short transaction, so connections recycle fast; the
// lifetimes mainly guard against stale connections through Supabase's
// pooler.
func Connect(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns, cfg.MinConns = clampPoolLimits(maxConns, minConns)
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open game db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping game db: %w", err)
	}
	return pool, nil
}

func clampPoolLimits(maxConns, minConns int32) (int32, int32) {
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns <= 0 || minConns > maxConns {
		minConns = defaultMinConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	return maxConns, minConns
}
