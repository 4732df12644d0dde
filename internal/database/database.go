package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 10 * time.Second

// InitDatabase opens a pgx pool for uri and verifies it with a ping.
func InitDatabase(ctx context.Context, uri string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, err
	}

	// 設置連接池參數
	poolConfig.MaxConns = 25                      // 最大連接數
	poolConfig.MinConns = 5                       // 最小連接數
	poolConfig.MaxConnLifetime = time.Hour        // 連接最大生命週期
	poolConfig.MaxConnIdleTime = time.Minute * 30 // 最大閒置時間
	poolConfig.ConnConfig.RuntimeParams["timezone"] = "UTC"

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// PostgresConnector adapts InitDatabase for a ConnectionCache.
func PostgresConnector(uri string) Connector[*pgxpool.Pool] {
	return func(ctx context.Context) (*pgxpool.Pool, error) {
		return InitDatabase(ctx, uri)
	}
}

func ClosePool(pool *pgxpool.Pool) error {
	pool.Close()
	return nil
}

// NewPostgresCache is the process-wide store handle cache.
func NewPostgresCache(uri string, lifecycle Lifecycle) *ConnectionCache[*pgxpool.Pool] {
	return NewConnectionCache("postgres", PostgresConnector(uri), ClosePool, lifecycle)
}
