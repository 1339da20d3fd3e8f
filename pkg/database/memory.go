// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"maps"
	"strconv"
	"sync"
)

// Compile-time interface compliance check.
var _ Store = (*Memory)(nil)

// Memory stores records in process memory. Thread-safe; suitable for tests
// and local development, not for multi-node deployments.
type Memory struct {
	mu    sync.RWMutex
	kinds map[string]map[string]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{kinds: make(map[string]map[string]Record)}
}

// Save writes the record, replacing any previous value.
func (m *Memory) Save(_ context.Context, kind, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, ok := m.kinds[kind]
	if !ok {
		records = make(map[string]Record)
		m.kinds[kind] = records
	}
	records[id] = maps.Clone(rec)
	return nil
}

// Get rehydrates the record or fails with ErrNotFound.
func (m *Memory) Get(_ context.Context, kind, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(rec), nil
}

// Delete removes the record.
func (m *Memory) Delete(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.kinds[kind], id)
	return nil
}

// DeleteExpired removes every record of the kind expiring at or before the
// given millisecond timestamp.
func (m *Memory) DeleteExpired(_ context.Context, kind string, before int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, rec := range m.kinds[kind] {
		raw, ok := rec[ExpiryField]
		if !ok {
			continue
		}
		expiresAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if expiresAt <= before {
			delete(m.kinds[kind], id)
			deleted++
		}
	}
	return deleted, nil
}

// Close is a no-op for the in-memory store.
func (*Memory) Close() error {
	return nil
}
