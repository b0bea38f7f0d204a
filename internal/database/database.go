package database

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/comanda/internal/logger"
	"github.com/chrisdamba/comanda/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool and retries until the database answers a ping.
func Connect(ctx context.Context, cfg models.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= retries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}

		if attempt < retries {
			wait := time.Duration(attempt) * cfg.RetryInterval
			log.Warn("db_connection_failed", fmt.Sprintf("database not reachable, retrying in %v", wait), err,
				"attempt", attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", retries, err)
}
