package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResultCacheRepository keeps serialized assessment results in Redis.
type ResultCacheRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewResultCacheRepository(rdb *redis.Client, ttl time.Duration) *ResultCacheRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCacheRepository{Redis: rdb, TTL: ttl}
}

func resultKey(userID uint, testUUID string) string {
	return fmt.Sprintf("assessment:result:%d:%s", userID, testUUID)
}

// Get returns (nil, nil) on a cache miss.
func (r *ResultCacheRepository) Get(ctx context.Context, userID uint, testUUID string) ([]byte, error) {
	data, err := r.Redis.Get(ctx, resultKey(userID, testUUID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (r *ResultCacheRepository) Set(ctx context.Context, userID uint, testUUID string, data []byte) error {
	return r.Redis.Set(ctx, resultKey(userID, testUUID), data, r.TTL).Err()
}

func (r *ResultCacheRepository) Delete(ctx context.Context, userID uint, testUUID string) error {
	return r.Redis.Del(ctx, resultKey(userID, testUUID)).Err()
}
