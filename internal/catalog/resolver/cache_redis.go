// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/castorie/castorie/internal/platform/constants"
)

// RedisCache stores per-category resolutions under a shared key prefix.
// A zero TTL disables expiry; the configured default keeps a backstop in
// case an invalidation is ever missed.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(categoryID string) string {
	return constants.RedisPrefixResolved + categoryID
}

// Get returns the cached resolution for a category, or nil on a miss.
// Undecodable payloads are treated as misses and dropped.
func (cache *RedisCache) Get(ctx context.Context, categoryID string) (*Resolution, error) {
	payload, err := cache.client.Get(ctx, key(categoryID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolver cache: get: %w", err)
	}

	resolution := &Resolution{}
	if err := json.Unmarshal(payload, resolution); err != nil {
		_ = cache.client.Del(ctx, key(categoryID)).Err()
		return nil, nil
	}

	return resolution, nil
}

// Set stores a resolution for its category.
func (cache *RedisCache) Set(ctx context.Context, resolution *Resolution) error {
	payload, err := json.Marshal(resolution)
	if err != nil {
		return fmt.Errorf("resolver cache: encode: %w", err)
	}

	if err := cache.client.Set(ctx, key(resolution.CategoryID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("resolver cache: set: %w", err)
	}

	return nil
}

// InvalidateCategory drops the cached resolution of one category.
func (cache *RedisCache) InvalidateCategory(ctx context.Context, categoryID string) error {
	if err := cache.client.Del(ctx, key(categoryID)).Err(); err != nil {
		return fmt.Errorf("resolver cache: invalidate: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached resolution. Filter mutations use this:
// a filter can be assigned to any number of categories, so per-category
// tracking would cost more than a scan over the prefix.
func (cache *RedisCache) InvalidateAll(ctx context.Context) error {
	iter := cache.client.Scan(ctx, 0, constants.RedisPrefixResolved+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := cache.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("resolver cache: invalidate all: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("resolver cache: scan: %w", err)
	}
	return nil
}
