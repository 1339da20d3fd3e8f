// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations.
const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Compile-time interface compliance check.
var _ Store = (*Redis)(nil)

// RedisConfig holds the connection settings for the Redis store.
type RedisConfig struct {
	Host string
	Port int
	DB   int
}

// Redis stores records as JSON-encoded field maps under
// "broker:<kind>:<id>". It is shared across broker nodes.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store and verifies connectivity.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:           cfg.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis database: %w", err)
	}
	return &Redis{client: client}, nil
}

func redisKey(kind, id string) string {
	return "broker:" + kind + ":" + id
}

// Save writes the record, replacing any previous value.
func (r *Redis) Save(ctx context.Context, kind, id string, rec Record) error {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(kind, id), encoded, 0).Err(); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Get rehydrates the record or fails with ErrNotFound.
func (r *Redis) Get(ctx context.Context, kind, id string) (Record, error) {
	encoded, err := r.client.Get(ctx, redisKey(kind, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(encoded, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// Delete removes the record.
func (r *Redis) Delete(ctx context.Context, kind, id string) error {
	if err := r.client.Del(ctx, redisKey(kind, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// DeleteExpired scans the kind's keyspace and removes records expiring at or
// before the given millisecond timestamp.
func (r *Redis) DeleteExpired(ctx context.Context, kind string, before int64) (int, error) {
	deleted := 0
	iter := r.client.Scan(ctx, 0, redisKey(kind, "*"), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		encoded, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to read record during sweep: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(encoded, &rec); err != nil {
			continue
		}
		expiresAt, err := strconv.ParseInt(rec[ExpiryField], 10, 64)
		if err != nil {
			continue
		}
		if expiresAt <= before {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return deleted, fmt.Errorf("failed to delete record during sweep: %w", err)
			}
			deleted++
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("keyspace scan failed: %w", err)
	}
	return deleted, nil
}

// Close releases the client connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
