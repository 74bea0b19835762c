// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

// TypedCache stores values of one type as JSON in a Cache. Concurrent
// GetOrSet misses for the same key share a single load.
type TypedCache[T any] struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewTypedCache wraps c. ttl applies to every value stored.
func NewTypedCache[T any](c Cache, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: c, ttl: ttl}
}

// Get returns the value under key. Missing, expired and undecodable entries
// are reported as absent; undecodable ones are also removed.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	return &value, true
}

// Set stores value under key.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.ttl)
}

// Delete removes a key from the cache.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// DeleteByPrefix removes every key starting with prefix.
func (c *TypedCache[T]) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.cache.DeleteByPrefix(ctx, prefix)
}

// GetOrSet returns the cached value or loads, stores and returns it. Load
// errors are returned and nothing is stored. Callers sharing a load receive
// the same pointer and must not modify it.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, load func() (*T, error)) (*T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		// A failed store only costs the next caller another load.
		_ = c.Set(ctx, key, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}
