//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Storage is the narrow key-value interface the cache persists through. It
// is structurally satisfied by the runtime's storage.
type Storage interface {
	// GetValue returns the value stored under (runID, namespace, key).
	GetValue(ctx context.Context, runID, namespace, key string) ([]byte, error)
	// SetValue stores the value under (runID, namespace, key).
	SetValue(ctx context.Context, runID, namespace, key string, value []byte) error
}

// cacheNamespace is the storage namespace holding persisted mock responses.
const cacheNamespace = "mock_cache"

// cacheKey is the single storage key holding the serialized cache document.
const cacheKey = "responses"

// Cache deduplicates mock responses by normalized call signature. It is
// scoped to one run, shared across the run's items, and flushed to durable
// storage exactly once at run teardown, never mid-run, so cross-run
// staleness and concurrent-flush races cannot occur.
type Cache struct {
	mu        sync.Mutex
	responses map[string]any
	flushed   bool
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{responses: make(map[string]any)}
}

// LoadCache restores a previously persisted cache for the run, or returns
// an empty cache when none was persisted.
func LoadCache(ctx context.Context, storage Storage, runID string) (*Cache, error) {
	cache := NewCache()
	if storage == nil {
		return cache, nil
	}
	data, err := storage.GetValue(ctx, runID, cacheNamespace, cacheKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cache, nil
		}
		return nil, fmt.Errorf("load mock cache: %w", err)
	}
	if err := json.Unmarshal(data, &cache.responses); err != nil {
		return nil, fmt.Errorf("decode mock cache: %w", err)
	}
	return cache, nil
}

// Load merges previously persisted responses into the cache. Entries already
// computed in this process win. Used when resuming a suspended run.
func (c *Cache) Load(ctx context.Context, storage Storage, runID string) error {
	persisted, err := LoadCache(ctx, storage, runID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for signature, value := range persisted.responses {
		if _, ok := c.responses[signature]; !ok {
			c.responses[signature] = value
		}
	}
	return nil
}

func (c *Cache) get(signature string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.responses[signature]
	return value, ok
}

func (c *Cache) put(signature string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[signature] = value
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.responses)
}

// Flush persists the cache through the storage. It must be called after all
// items of the run have joined; a second call is a no-op.
func (c *Cache) Flush(ctx context.Context, storage Storage, runID string) error {
	if storage == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flushed {
		return nil
	}
	data, err := json.Marshal(c.responses)
	if err != nil {
		return fmt.Errorf("encode mock cache: %w", err)
	}
	if err := storage.SetValue(ctx, runID, cacheNamespace, cacheKey, data); err != nil {
		return fmt.Errorf("flush mock cache: %w", err)
	}
	c.flushed = true
	return nil
}
