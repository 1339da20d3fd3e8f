// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewDummy()

	ciphertext, err := svc.Encrypt(ctx, "key-a", []byte("plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("plaintext"), ciphertext)

	plaintext, err := svc.Decrypt(ctx, "key-a", ciphertext)
	require.NoError(t, err)
	assert.Equal(t, []byte("plaintext"), plaintext)
}

func TestDummyKeyBinding(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewDummy()

	ciphertext, err := svc.Encrypt(ctx, "key-a", []byte("plaintext"))
	require.NoError(t, err)

	_, err = svc.Decrypt(ctx, "key-b", ciphertext)
	assert.Error(t, err, "ciphertext is bound to its key")
}

func TestDummyRejectsGarbage(t *testing.T) {
	t.Parallel()
	svc := NewDummy()

	_, err := svc.Decrypt(context.Background(), "key-a", []byte("not-an-envelope"))
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, err := New(ctx, "dummy")
	require.NoError(t, err)
	assert.IsType(t, &Dummy{}, svc)

	_, err = New(ctx, "nope")
	assert.Error(t, err)
}
