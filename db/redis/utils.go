package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// SetJSON stores value encoded as JSON under key.
func SetJSON(ctx context.Context, client redis.Cmdable, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// GetJSON decodes the JSON stored under key into dst.
func GetJSON(ctx context.Context, client redis.Cmdable, key string, dst interface{}) error {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// FirstSeen stores now under key unless a value is already there, and returns
// whichever value ends up stored.
func FirstSeen(ctx context.Context, client redis.Cmdable, key string, now time.Time) (time.Time, error) {
	if err := client.SetNX(ctx, key, now.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return time.Time{}, err
	}

	stored, err := client.Get(ctx, key).Result()
	if err != nil {
		return time.Time{}, err
	}

	return time.Parse(time.RFC3339Nano, stored)
}

// Incr increments the counter under key and returns the new value.
func Incr(ctx context.Context, client redis.Cmdable, key string) (int64, error) {
	return client.Incr(ctx, key).Result()
}

