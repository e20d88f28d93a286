package common

import (
	"context"
	"time"

	"policereserves/roster/internal/config"
	"policereserves/roster/internal/logging"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when no address is configured. A failed ping is
// logged and the client is still returned; the pool reconnects on its own.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		logging.Info("Redis disabled, using in-memory cache")
		return nil
	}

	logging.Info("Initializing Redis client", "addr", cfg.Addr, "db", cfg.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Failed to ping Redis", "error", err)
		return client
	}

	logging.Info("Successfully connected to Redis")
	return client
}
