package cache

import (
	"context"
	"time"

	"PersonaLab/pkg/redis"
)

type redisCache struct{}

// NewRedisCache 包装全局 redis 客户端
func NewRedisCache() Cache {
	return &redisCache{}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := redis.Get(ctx, key)
	if err == redis.Nil {
		return "", ErrMiss
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return redis.Set(ctx, key, value, ttl)
}

func (c *redisCache) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return redis.SetNX(ctx, key, value, ttl)
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	_, err := redis.Del(ctx, keys...)
	return err
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := redis.Exists(ctx, key)
	return n > 0, err
}
