// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package oauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/tokenbroker/pkg/database"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewStore(database.NewMemory())

	grant := &RefreshToken{ID: "alice@example.com", Value: []byte{0x01, 0xff, 0x42}}
	require.NoError(t, store.Save(ctx, grant))

	got, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, grant, got)
}

func TestStoreGetMissing(t *testing.T) {
	t.Parallel()
	store := NewStore(database.NewMemory())

	_, err := store.Get(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
