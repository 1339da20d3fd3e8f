// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"sync"
)

// Compile-time interface compliance check.
var _ Remote = (*Memory)(nil)

// Memory is an in-process implementation of the remote tier. The lock is a
// real mutual exclusion within the process, so the stampede protocol behaves
// the same as with Redis on a single node. Suitable for tests and
// development.
type Memory struct {
	values *Local[[]byte]

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMemory creates an empty in-memory remote cache.
func NewMemory() *Memory {
	return &Memory{
		values: NewLocal[[]byte](),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Get returns the cached value, or nil on a miss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.values.Get(key)
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Set writes the value. A zero TTL stores the value without expiry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	m.values.Set(key, value, ttlSeconds)
	return nil
}

// Delete removes the key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.values.Delete(key)
	return nil
}

// AcquireLock blocks until the named lock is held.
func (m *Memory) AcquireLock(_ context.Context, name string) (Lock, error) {
	m.mu.Lock()
	named, ok := m.locks[name]
	if !ok {
		named = &sync.Mutex{}
		m.locks[name] = named
	}
	m.mu.Unlock()

	named.Lock()
	return &memoryLock{mu: named}, nil
}

// Close is a no-op for the in-memory cache.
func (*Memory) Close() error {
	return nil
}

type memoryLock struct {
	mu *sync.Mutex
}

// Release frees the lock.
func (l *memoryLock) Release(_ context.Context) error {
	l.mu.Unlock()
	return nil
}
