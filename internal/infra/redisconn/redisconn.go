package redisconn

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/pkg/config"

	"github.com/go-redis/redis/v8"
)

// Connect builds the Redis client backing cart persistence. Pool settings
// follow the same profile as the Postgres side: a warm pool, bounded retries,
// and short operation timeouts so a slow Redis degrades requests instead of
// hanging them.
func Connect(cfg config.RedisConfig) (*redis.Client, func(), error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
	}

	return client, cleanup, nil
}
