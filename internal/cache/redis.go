package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock/config"
	"github.com/redis/go-redis/v9"
)

// RedisClient is a JSON read-through cache. A nil *RedisClient is a valid,
// always-missing cache so callers never branch on whether Redis is configured.
type RedisClient struct {
	Client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg *config.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewFromClient(client, cfg.TTL()), nil
}

func NewFromClient(client *redis.Client, ttl time.Duration) *RedisClient {
	return &RedisClient{Client: client, ttl: ttl}
}

// GetJSON decodes the value at key into dest. A miss is (false, nil).
func (r *RedisClient) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if r == nil {
		return false, nil
	}
	val, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisClient) SetJSON(ctx context.Context, key string, value any) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if r == nil || len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

// DeletePattern removes every key matching a glob pattern.
func (r *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	if r == nil {
		return nil
	}
	iter := r.Client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return r.Delete(ctx, keys...)
}

func (r *RedisClient) Close() error {
	if r == nil {
		return nil
	}
	return r.Client.Close()
}
