// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package database provides the generic record store the broker persists
// sessions and refresh-token grants in.
//
// Records are flat string-keyed field maps addressed by (kind, id). The store
// is deliberately dumb: all typing and validation lives with the record
// owners (pkg/sessions, pkg/oauth).
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/stacklok/tokenbroker/pkg/settings"
)

// ErrNotFound is returned by Get when no record exists under (kind, id).
var ErrNotFound = errors.New("record not found")

// Record is a flat field map. Numeric fields are stored in decimal string
// form.
type Record map[string]string

// ExpiryField, when present on a record, holds the record's absolute expiry
// in milliseconds since epoch and makes the record eligible for
// DeleteExpired.
const ExpiryField = "expires_at"

// Store persists records addressed by (kind, id).
type Store interface {
	// Save writes the record, replacing any previous value.
	Save(ctx context.Context, kind, id string, rec Record) error

	// Get rehydrates the record or fails with ErrNotFound.
	Get(ctx context.Context, kind, id string) (Record, error)

	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, kind, id string) error

	// DeleteExpired removes every record of the kind whose ExpiryField is
	// at or before the given millisecond timestamp, and reports how many
	// were removed.
	DeleteExpired(ctx context.Context, kind string, before int64) (int, error)

	// Close releases backend resources.
	Close() error
}

// New creates the database backend selected by the given token.
func New(ctx context.Context, cfg *settings.Settings) (Store, error) {
	switch cfg.DatabaseBackend {
	case settings.DatabaseBackendMemory:
		return NewMemory(), nil
	case settings.DatabaseBackendRedis:
		return NewRedis(ctx, RedisConfig{
			Host: cfg.RedisDatabaseHost,
			Port: cfg.RedisDatabasePort,
			DB:   cfg.RedisDatabaseDB,
		})
	case settings.DatabaseBackendSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database backend: %s", cfg.DatabaseBackend)
	}
}
