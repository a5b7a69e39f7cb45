// Package redisclient builds the shared Redis client backing the listing
// snapshot cache.
package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lotboard/lotboard-service/internal/config"
)

// NewClient creates a Redis client from the configured address and
// credentials. The pool is sized for the snapshot cache's read-mostly load.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MaxRetries:   3,
	})
}

// Ping verifies the connection before the service starts serving.
func Ping(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return client.Ping(ctx).Err()
}
