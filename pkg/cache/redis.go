// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations.
const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// lockTTL bounds how long a crashed holder can starve a lock name. Provider
// calls are expected to complete well within it.
const lockTTL = 30 * time.Second

// lockRetryInterval is the initial polling interval while waiting for a
// contended lock.
const lockRetryInterval = 50 * time.Millisecond

var errLockHeld = errors.New("lock is held")

// releaseScript deletes the lock key only if it still carries our token, so
// a holder whose TTL lapsed cannot release a competitor's acquisition.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Compile-time interface compliance check.
var _ Remote = (*Redis)(nil)

// RedisConfig holds the connection settings for the Redis cache.
type RedisConfig struct {
	Host string
	Port int
	DB   int
}

// Redis is the production remote cache tier. Values are stored as opaque
// bytes (the access-token fetcher writes KMS ciphertext); locks are plain
// SET NX keys with a TTL.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache and verifies connectivity.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:           cfg.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}
	return &Redis{client: client}, nil
}

// Get returns the cached value, or nil on a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}
	return value, nil
}

// Set writes the value. A zero TTL stores the value without expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// Delete removes the key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// AcquireLock blocks until the named lock is held, polling with exponential
// backoff. The lock expires after lockTTL if the holder disappears.
func (r *Redis) AcquireLock(ctx context.Context, name string) (Lock, error) {
	token := uuid.NewString()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = lockRetryInterval
	bo.MaxInterval = time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		acquired, err := r.client.SetNX(ctx, name, token, lockTTL).Result()
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("lock acquisition failed: %w", err))
		}
		if !acquired {
			return struct{}{}, errLockHeld
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(bo))
	if err != nil {
		return nil, err
	}

	return &redisLock{client: r.client, name: name, token: token}, nil
}

// Close releases the client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

type redisLock struct {
	client *redis.Client
	name   string
	token  string
}

// Release frees the lock if we still hold it.
func (l *redisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.name}, l.token).Err(); err != nil {
		return fmt.Errorf("lock release failed: %w", err)
	}
	return nil
}
