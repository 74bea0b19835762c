// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is the single-instance backend used when no Redis URL is
// configured. When MaxSize is reached, expired entries are dropped first and
// then the entry closest to expiry.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	bytes      int64
	defaultTTL time.Duration
	maxSize    int

	stopCh chan struct{}
	closed atomic.Bool
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL      time.Duration
	MaxSize         int           // entries, 0 = unlimited
	CleanupInterval time.Duration // 0 = expire lazily only
}

// NewMemoryCache creates a new memory cache with the given options.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxSize:    opts.MaxSize,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}
	if opts.CleanupInterval > 0 {
		go c.cleanupLoop(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache with a one minute
// cleanup interval.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      ttl,
		CleanupInterval: time.Minute,
	})
}

// Get retrieves a copy of the value stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		if ok {
			c.mu.Lock()
			c.removeIfExpired(key)
			c.mu.Unlock()
		}
		c.misses.Add(1)
		return nil, ErrCacheMiss
	}

	c.hits.Add(1)
	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value. A zero ttl means the default TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	e := memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.bytes -= int64(len(old.value))
	} else if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.makeRoom()
	}
	c.entries[key] = e
	c.bytes += int64(len(e.value))
	c.sets.Add(1)
	return nil
}

// Delete removes a key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	c.remove(key)
	c.mu.Unlock()
	return nil
}

// DeleteByPrefix removes all keys starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(key)
		}
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	c.mu.Lock()
	clear(c.entries)
	c.bytes = 0
	c.mu.Unlock()
	return nil
}

// Has reports whether key holds an unexpired value.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	return ok && c.now().Before(e.expiresAt), nil
}

// Close stops the cleanup goroutine. Further calls fail with ErrCacheClosed.
func (c *MemoryCache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns current cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	items, size := len(c.entries), c.bytes
	c.mu.RUnlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
		Size:    size,
	}
}

// ResetStats resets the hit, miss and set counters.
func (c *MemoryCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

// remove deletes key. c.mu must be held.
func (c *MemoryCache) remove(key string) {
	if e, ok := c.entries[key]; ok {
		c.bytes -= int64(len(e.value))
		delete(c.entries, key)
	}
}

// removeIfExpired deletes key when it is still expired. c.mu must be held.
func (c *MemoryCache) removeIfExpired(key string) {
	if e, ok := c.entries[key]; ok && !c.now().Before(e.expiresAt) {
		c.remove(key)
	}
}

// makeRoom frees at least one slot. c.mu must be held.
func (c *MemoryCache) makeRoom() {
	if c.removeExpiredLocked() > 0 {
		return
	}
	var victim string
	var soonest time.Time
	for key, e := range c.entries {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = key, e.expiresAt
		}
	}
	c.remove(victim)
}

// removeExpiredLocked drops expired entries and reports how many. c.mu must
// be held.
func (c *MemoryCache) removeExpiredLocked() int {
	now := c.now()
	n := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			c.remove(key)
			n++
		}
	}
	return n
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked()
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

var (
	_ Cache         = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
