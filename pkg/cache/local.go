// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"
	"time"
)

// timedEntry wraps a value with its expiry for TTL tracking.
type timedEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *timedEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Local is the per-process cache tier. Values are held in plaintext; only
// identities and already-minted tokens belong here, never long-lived secrets.
// Thread-safe.
type Local[T any] struct {
	mu      sync.RWMutex
	entries map[string]*timedEntry[T]
	now     func() time.Time
}

// NewLocal creates an empty local cache.
func NewLocal[T any]() *Local[T] {
	return &Local[T]{
		entries: make(map[string]*timedEntry[T]),
		now:     time.Now,
	}
}

// Get returns the cached value if present and unexpired. Expired entries are
// stripped on read.
func (l *Local[T]) Get(key string) (T, bool) {
	var zero T

	l.mu.RLock()
	entry, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if entry.expired(l.now()) {
		l.mu.Lock()
		// Re-check under the write lock; a fresh value may have been set.
		if current, ok := l.entries[key]; ok && current.expired(l.now()) {
			delete(l.entries, key)
		}
		l.mu.Unlock()
		return zero, false
	}
	return entry.value, true
}

// Set stores the value. A zero TTL stores the value without expiry.
func (l *Local[T]) Set(key string, value T, ttlSeconds int) {
	entry := &timedEntry[T]{value: value}
	if ttlSeconds > 0 {
		entry.expiresAt = l.now().Add(time.Duration(ttlSeconds) * time.Second)
	}

	l.mu.Lock()
	l.entries[key] = entry
	l.mu.Unlock()
}

// Delete removes the key.
func (l *Local[T]) Delete(key string) {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
}
