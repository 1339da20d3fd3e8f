// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// Compile-time interface compliance check.
var _ Store = (*SQLite)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	kind       TEXT NOT NULL,
	id         TEXT NOT NULL,
	fields     TEXT NOT NULL,
	expires_at INTEGER,
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS records_expiry ON records (kind, expires_at);
`

// SQLite stores records in a single-file relational database. Field maps are
// stored as JSON; the expiry is lifted into its own column so expired records
// can be swept with one statement.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database file and bootstraps the
// schema.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// The driver is safe for concurrent use, but SQLite serializes writers;
	// a single connection avoids SQLITE_BUSY under concurrent endpoints.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to bootstrap sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save writes the record, replacing any previous value.
func (s *SQLite) Save(ctx context.Context, kind, id string, rec Record) error {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	var expiresAt sql.NullInt64
	if raw, ok := rec[ExpiryField]; ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expiresAt = sql.NullInt64{Int64: ms, Valid: true}
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, fields, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET fields = excluded.fields, expires_at = excluded.expires_at`,
		kind, id, string(encoded), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Get rehydrates the record or fails with ErrNotFound.
func (s *SQLite) Get(ctx context.Context, kind, id string) (Record, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE kind = ? AND id = ?`, kind, id).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(encoded), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// Delete removes the record.
func (s *SQLite) Delete(ctx context.Context, kind, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`, kind, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// DeleteExpired removes every record of the kind expiring at or before the
// given millisecond timestamp.
func (s *SQLite) DeleteExpired(ctx context.Context, kind string, before int64) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND expires_at IS NOT NULL AND expires_at <= ?`,
		kind, before)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired records: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
