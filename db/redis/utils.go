package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Set sets a key-value pair in Redis.
func Set(ctx context.Context, client *redis.Client, key string, value interface{}, ttl time.Duration) error {
	return client.Set(ctx, key, value, ttl).Err()
}

// GetEx retrieves the value of a key and resets its expiration.
func GetEx(ctx context.Context, client *redis.Client, key string, ttl time.Duration) (string, error) {
	return client.GetEx(ctx, key, ttl).Result()
}

// Del deletes a key from Redis.
func Del(ctx context.Context, client *redis.Client, key string) error {
	return client.Del(ctx, key).Err()
}

// Exists checks if a key exists in Redis.
func Exists(ctx context.Context, client *redis.Client, key string) (bool, error) {
	exists, err := client.Exists(ctx, key).Result()
	return exists > 0, err
}

// TTL returns the remaining time to live of a key.
func TTL(ctx context.Context, client *redis.Client, key string) (time.Duration, error) {
	return client.TTL(ctx, key).Result()
}
