// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	host, portStr, _ := strings.Cut(mr.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cache, err := NewRedis(context.Background(), RedisConfig{Host: host, Port: port, DB: 0})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestRedisGetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, _ := newTestRedis(t)

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "miss must be nil, nil")

	require.NoError(t, cache.Set(ctx, "k", []byte("ciphertext"), 60))
	got, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("ciphertext"), got)

	require.NoError(t, cache.Delete(ctx, "k"))
	got, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSetTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, mr := newTestRedis(t)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 60))
	assert.Equal(t, 60*time.Second, mr.TTL("k"))

	mr.FastForward(61 * time.Second)
	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisLock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, mr := newTestRedis(t)

	lock, err := cache.AcquireLock(ctx, "fingerprint_lock")
	require.NoError(t, err)
	assert.True(t, mr.Exists("fingerprint_lock"))

	require.NoError(t, lock.Release(ctx))
	assert.False(t, mr.Exists("fingerprint_lock"))

	// Reacquirable after release.
	lock, err = cache.AcquireLock(ctx, "fingerprint_lock")
	require.NoError(t, err)
	require.NoError(t, lock.Release(ctx))
}

func TestRedisLockBlocksUntilReleased(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, _ := newTestRedis(t)

	held, err := cache.AcquireLock(ctx, "name")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		lock, err := cache.AcquireLock(ctx, "name")
		assert.NoError(t, err)
		close(acquired)
		_ = lock.Release(ctx)
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while still held")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, held.Release(ctx))
	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("lock not acquired after release")
	}
}

func TestRedisLockAcquireRespectsContext(t *testing.T) {
	t.Parallel()
	cache, _ := newTestRedis(t)

	held, err := cache.AcquireLock(context.Background(), "name")
	require.NoError(t, err)
	defer held.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = cache.AcquireLock(ctx, "name")
	assert.Error(t, err)
}

func TestRedisLockReleaseIsScopedToHolder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, mr := newTestRedis(t)

	lock, err := cache.AcquireLock(ctx, "name")
	require.NoError(t, err)

	// Simulate the TTL lapsing and another holder taking over.
	mr.Del("name")
	other, err := cache.AcquireLock(ctx, "name")
	require.NoError(t, err)

	// The stale holder's release must not free the new holder's lock.
	require.NoError(t, lock.Release(ctx))
	assert.True(t, mr.Exists("name"))

	require.NoError(t, other.Release(ctx))
	assert.False(t, mr.Exists("name"))
}
