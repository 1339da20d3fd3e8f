// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cache provides the two cache tiers backing access-token lookups: a
// per-process local tier with TTL eviction, and a shared remote tier that
// additionally supplies the named distributed lock used to prevent cache
// stampedes.
package cache

import (
	"context"
	"fmt"

	"github.com/stacklok/tokenbroker/pkg/settings"
)

// Remote is the shared cache contract. A cache miss is reported as a nil
// value with a nil error.
type Remote interface {
	// Get returns the cached value, or nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value. A zero TTL stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// AcquireLock blocks until the named lock is held and returns its
	// handle. Locks carry a TTL so a crashed holder cannot starve the name
	// permanently.
	AcquireLock(ctx context.Context, name string) (Lock, error)

	// Close releases backend resources.
	Close() error
}

// Lock is a held distributed lock. Release must be called on every exit path.
type Lock interface {
	// Release frees the lock. Releasing a lock whose TTL already lapsed is
	// not an error.
	Release(ctx context.Context) error
}

// New creates the remote cache backend selected by the given token.
func New(ctx context.Context, cfg *settings.Settings) (Remote, error) {
	switch cfg.CacheBackend {
	case settings.CacheBackendRedis:
		return NewRedis(ctx, RedisConfig{
			Host: cfg.RedisCacheHost,
			Port: cfg.RedisCachePort,
			DB:   cfg.RedisCacheDB,
		})
	case settings.CacheBackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}
