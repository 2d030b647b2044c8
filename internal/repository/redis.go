package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisRepository wraps the shared Redis client. All helpers tolerate a nil
// receiver so callers can run without Redis configured.
type RedisRepository struct {
	Client *redis.Client
}

// NewRedisRepository creates a new RedisRepository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{Client: client}
}

// SetNX atomically sets key if absent and reports whether it was set.
func (r *RedisRepository) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if r == nil || r.Client == nil {
		return true, nil
	}
	return r.Client.SetNX(ctx, key, value, ttl).Result()
}
