// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalSetGet(t *testing.T) {
	t.Parallel()
	c := NewLocal[string]()

	c.Set("k", "v", 60)
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLocalExpiry(t *testing.T) {
	t.Parallel()
	c := NewLocal[string]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", "v", 30)

	now = now.Add(29 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// The expired entry is stripped, not just hidden.
	c.mu.RLock()
	_, present := c.entries["k"]
	c.mu.RUnlock()
	assert.False(t, present)
}

func TestLocalZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()
	c := NewLocal[int]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", 42, 0)
	now = now.Add(24 * time.Hour)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestLocalOverwrite(t *testing.T) {
	t.Parallel()
	c := NewLocal[string]()

	c.Set("k", "old", 60)
	c.Set("k", "new", 60)
	got, _ := c.Get("k")
	assert.Equal(t, "new", got)

	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}
