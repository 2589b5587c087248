// Package cache keeps the latest pipeline result hot in Redis so the
// dashboard API serves reads without touching Postgres or recomputing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/pipeline"
)

const latestRunKey = "analytics:latest_run"

// Cache wraps a Redis client with the result TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a result cache. TTL of zero keeps results until overwritten.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// SetLatestRun stores a full run result as JSON.
func (c *Cache) SetLatestRun(ctx context.Context, res *pipeline.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := c.client.Set(ctx, latestRunKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache run: %w", err)
	}
	return nil
}

// GetLatestRun returns the cached run, or (nil, nil) on a cache miss.
func (c *Cache) GetLatestRun(ctx context.Context) (*pipeline.Result, error) {
	data, err := c.client.Get(ctx, latestRunKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached run: %w", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal cached run: %w", err)
	}
	return &res, nil
}

// Invalidate drops the cached run.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, latestRunKey).Err()
}
