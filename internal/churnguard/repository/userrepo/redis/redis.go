package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/churnguard/repository/userrepo"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/redistools"
	"github.com/redis/go-redis/v9"
)

// UsersRedisRepo keeps every user in one hash: username -> password hash.
type UsersRedisRepo struct {
	rdb *redis.Client
	key string
}

func New(ctx context.Context, cfg config.RedisDB) (UsersRedisRepo, error) {
	rdb, err := redistools.Connect(ctx, cfg)
	if err != nil {
		return UsersRedisRepo{}, fmt.Errorf("connect error: %w", err)
	}

	return NewWithClient(rdb, cfg.Key), nil
}

func NewWithClient(rdb *redis.Client, key string) UsersRedisRepo {
	return UsersRedisRepo{
		rdb: rdb,
		key: key,
	}
}

func (ur UsersRedisRepo) CreateUser(ctx context.Context, u models.User) error {
	created, err := ur.rdb.HSetNX(ctx, ur.key, u.Username, u.PasswordHash).Result()
	if err != nil {
		return fmt.Errorf("hsetnx error: %w", err)
	}

	if !created {
		return userrepo.ErrAlreadyExists
	}

	return nil
}

func (ur UsersRedisRepo) GetUser(ctx context.Context, username string) (models.User, error) {
	hash, err := ur.rdb.HGet(ctx, ur.key, username).Result()
	if errors.Is(err, redis.Nil) {
		return models.User{}, userrepo.ErrNotFound
	} else if err != nil {
		return models.User{}, fmt.Errorf("hget error: %w", err)
	}

	return models.User{Username: username, PasswordHash: hash}, nil
}

func (ur UsersRedisRepo) Wipe(ctx context.Context) error {
	if err := ur.rdb.Del(ctx, ur.key).Err(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}

func (ur UsersRedisRepo) Close(_ context.Context) error {
	if err := ur.rdb.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}

	return nil
}
