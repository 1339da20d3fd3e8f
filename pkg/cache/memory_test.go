// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "miss must be nil, nil")

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 60))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, m.Delete(ctx, "k"))
	got, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryLockMutualExclusion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	const workers = 16
	var (
		wg      sync.WaitGroup
		holders int
		maxSeen int
		mu      sync.Mutex
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock, err := m.AcquireLock(ctx, "name")
			require.NoError(t, err)

			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			mu.Lock()
			holders--
			mu.Unlock()
			require.NoError(t, lock.Release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "at most one holder at a time")
}

func TestMemoryLockNamesAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	first, err := m.AcquireLock(ctx, "a")
	require.NoError(t, err)
	defer first.Release(ctx)

	// A different name must not block.
	second, err := m.AcquireLock(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, second.Release(ctx))
}
