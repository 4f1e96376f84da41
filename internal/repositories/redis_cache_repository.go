package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisCacheRepository struct{ client *redis.Client }

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &redisCacheRepository{client: client}
}

func (r *redisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *redisCacheRepository) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheRepository) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
