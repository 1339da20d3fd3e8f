// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/tokenbroker/pkg/database"
)

const (
	testRenewPeriod = int64(24 * time.Hour / time.Millisecond)
	testMaxLifetime = int64(7 * 24 * time.Hour / time.Millisecond)
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(database.NewMemory(), testRenewPeriod, testMaxLifetime)
}

func TestStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	session, err := store.Create(ctx, "alice@EXAMPLE.COM", "yarn@FOO.BAR", "gs://bucket", "storage.rw")
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.NotEmpty(t, session.Password)
	assert.Equal(t, "alice@EXAMPLE.COM", session.Owner)
	assert.Equal(t, "yarn@FOO.BAR", session.Renewer)
	assert.Equal(t, "gs://bucket", session.Target)
	assert.Equal(t, "storage.rw", session.Scope)
	assert.Equal(t, session.CreationTime+testRenewPeriod, session.ExpiresAt)

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, loaded)
}

func TestStoreCreateUniqueSecrets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Create(ctx, "alice@EXAMPLE.COM", "", "", "storage.rw")
	require.NoError(t, err)
	second, err := store.Create(ctx, "alice@EXAMPLE.COM", "", "", "storage.rw")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Password, second.Password)
}

func TestStoreCreateCapsLifetime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A renewal period longer than the maximum lifetime is capped.
	store := NewStore(database.NewMemory(), testMaxLifetime*2, testMaxLifetime)
	session, err := store.Create(ctx, "alice@EXAMPLE.COM", "", "", "storage.rw")
	require.NoError(t, err)
	assert.Equal(t, session.CreationTime+testMaxLifetime, session.ExpiresAt)
}

func TestStoreGetMissing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreExtend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	session, err := store.Create(ctx, "alice@EXAMPLE.COM", "yarn@FOO.BAR", "", "storage.rw")
	require.NoError(t, err)

	// Simulate renewal a day later.
	later := time.Now().Add(24 * time.Hour)
	store.now = func() time.Time { return later }

	require.NoError(t, store.Extend(ctx, session))
	assert.Equal(t, Millis(later)+testRenewPeriod, session.ExpiresAt)

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ExpiresAt, loaded.ExpiresAt)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	session, err := store.Create(ctx, "alice@EXAMPLE.COM", "", "", "storage.rw")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, session))

	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDeleteExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)

	live, err := store.Create(ctx, "alice@EXAMPLE.COM", "", "", "storage.rw")
	require.NoError(t, err)
	expired, err := store.Create(ctx, "bob@EXAMPLE.COM", "", "", "storage.rw")
	require.NoError(t, err)
	expired.ExpiresAt = Millis(time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(ctx, expired))

	deleted, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = store.Get(ctx, live.ID)
	assert.NoError(t, err)
	_, err = store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionIsExpired(t *testing.T) {
	t.Parallel()
	now := time.Now()
	session := &Session{ExpiresAt: Millis(now)}

	assert.False(t, session.IsExpired(now.Add(-time.Second)))
	assert.True(t, session.IsExpired(now))
	assert.True(t, session.IsExpired(now.Add(time.Second)))
}
