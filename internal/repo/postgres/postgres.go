package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationName — имя клиента в pg_stat_activity.
const ApplicationName = "farm-orders"

const pingTimeout = 5 * time.Second

// NewPool — пул соединений к Postgres для чтения каталога.
// Каталог невелик и читается целиком, поэтому соединения живут недолго;
// maxConns > 0 переопределяет размер пула. Ping в конце — fail-fast при старте.
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}

	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if connErr := pool.Ping(pingCtx); connErr != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", connErr)
	}

	return pool, nil
}
