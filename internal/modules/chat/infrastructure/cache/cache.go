package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 键不存在
var ErrMiss = errors.New("cache: key not found")

// Cache 会话态缓存的最小抽象，生产环境由 redis 承载
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
