package database

import (
	"context"
	"fmt"

	"event-booking/config"

	"github.com/redis/go-redis/v9"
)

func InitRedis(ctx context.Context, config *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func RedisConnector(cfg config.RedisConfig) Connector[*redis.Client] {
	return func(ctx context.Context) (*redis.Client, error) {
		return InitRedis(ctx, &cfg)
	}
}

func NewRedisCache(cfg config.RedisConfig, lifecycle Lifecycle) *ConnectionCache[*redis.Client] {
	return NewConnectionCache("redis", RedisConnector(cfg), func(c *redis.Client) error {
		return c.Close()
	}, lifecycle)
}
