package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

const defaultResultPrefix = "playersim:v1:similar:"

// ResultCache stores ranked responses between processes.
type ResultCache interface {
	Get(ctx context.Context, key string) (model.Response, bool, error)
	Set(ctx context.Context, key string, resp model.Response, ttl time.Duration) error
}

// RedisResultCache is a ResultCache backed by Redis string keys holding
// JSON payloads.
type RedisResultCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisResultCache wraps an existing client.
func NewRedisResultCache(client redis.UniversalClient) *RedisResultCache {
	return &RedisResultCache{client: client, prefix: defaultResultPrefix}
}

// ConnectRedis parses a redis:// URL and checks the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns the stored response, or false when the key is missing.
func (c *RedisResultCache) Get(ctx context.Context, key string) (model.Response, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Response{}, false, nil
	}
	if err != nil {
		return model.Response{}, false, fmt.Errorf("redis get: %w", err)
	}
	var resp model.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.Response{}, false, fmt.Errorf("decode cached response: %w", err)
	}
	return resp, true, nil
}

// Set stores resp for ttl.
func (c *RedisResultCache) Set(ctx context.Context, key string, resp model.Response, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// resultKey identifies one ranked answer: a cohort, a target and a limit.
func resultKey(key model.CohortKey, playerID string, limit int) string {
	return fmt.Sprintf("%s:%s:%d", key, playerID, limit)
}
