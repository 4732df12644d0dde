package testutil

import (
	"context"
	"testing"
	"time"

	"event-booking/config"
	"event-booking/internal/database"
	"event-booking/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const testDBLockID int64 = 742019312

// NewTestPostgres returns a ready ConnectionCache for the test database,
// skipping the test when Postgres is unreachable. Tables are migrated and
// truncated before returning.
func NewTestPostgres(t *testing.T) *database.ConnectionCache[*pgxpool.Pool] {
	t.Helper()
	cfg := config.LoadTestConfig()

	cache := database.NewPostgresCache(cfg.Database.URL, database.LifecycleProduction)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := cache.Acquire(ctx)
	if err != nil {
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Teardown(context.Background())
	})

	lockTestDB(t, pool)

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE bookings, events`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return cache
}

// NewTestRedis 僅初始化 Redis，用於只依賴 Redis 的測試（如 queue 整合測試）
func NewTestRedis(t *testing.T) *database.ConnectionCache[*redis.Client] {
	t.Helper()
	cfg := config.LoadTestConfig()

	cache := database.NewRedisCache(cfg.Redis, database.LifecycleProduction)
	if _, err := cache.Acquire(context.Background()); err != nil {
		t.Skipf("skipping Redis integration tests: %v", err)
	}
	t.Cleanup(func() { _ = cache.Teardown(context.Background()) })
	return cache
}

func lockTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire lock conn: %v", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, testDBLockID); err != nil {
		conn.Release()
		t.Fatalf("acquire test lock: %v", err)
	}

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, testDBLockID)
		conn.Release()
	})
}
