package redistools

import (
	"context"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/waitfor"
	"github.com/redis/go-redis/v9"
)

func Connect(ctx context.Context, cfg config.RedisDB) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := waitfor.Ping(ctx, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		rdb.Close()

		return nil, fmt.Errorf("cannot ping redis db error: %w", err)
	}

	return rdb, nil
}
