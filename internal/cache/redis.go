package cache

import (
	"context"
	"errors"
	"fmt"
	"quiz-forge/internal/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled is returned when no redis address is configured.
var ErrRedisDisabled = errors.New("redis address is not configured")

const pingTimeout = 3 * time.Second

// NewRedisClient connects to the configured server and pings it once.
// Callers treat ErrRedisDisabled as "run without snapshots".
func NewRedisClient(ctx context.Context, redisCfg config.RedisConfig) (*redis.Client, error) {
	if redisCfg.Address == "" {
		return nil, ErrRedisDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", redisCfg.Address, err)
	}

	return client, nil
}
