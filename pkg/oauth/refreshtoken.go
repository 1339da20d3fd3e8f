// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package oauth contracts the output of the external consent flow: refresh
// token grants persisted by the authorizer, read-only from the broker's
// perspective.
package oauth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/stacklok/tokenbroker/pkg/database"
)

// Kind is the record-store kind refresh tokens are persisted under.
const Kind = "refresh_tokens"

// ErrNotFound is returned when the user has not authorized the broker yet.
var ErrNotFound = errors.New("refresh token not found")

// RefreshToken is a stored refresh grant. The id is the owner's cloud-domain
// identity (e.g. alice@example.com); the value is ciphertext under the
// refresh-token crypto key.
type RefreshToken struct {
	ID    string
	Value []byte
}

// Store reads refresh-token records seeded by the authorizer.
type Store struct {
	db database.Store
}

// NewStore creates a refresh-token store over the given record store.
func NewStore(db database.Store) *Store {
	return &Store{db: db}
}

// Get loads the refresh grant for the given cloud identity or fails with
// ErrNotFound.
func (st *Store) Get(ctx context.Context, id string) (*RefreshToken, error) {
	rec, err := st.db.Get(ctx, Kind, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	value, err := base64.StdEncoding.DecodeString(rec["value"])
	if err != nil {
		return nil, fmt.Errorf("corrupt refresh token record %s: %w", id, err)
	}
	return &RefreshToken{ID: id, Value: value}, nil
}

// Save persists a refresh grant. The broker core never calls this; it exists
// for the authorizer's seeding path and for tests.
func (st *Store) Save(ctx context.Context, token *RefreshToken) error {
	rec := database.Record{
		"value": base64.StdEncoding.EncodeToString(token.Value),
	}
	if err := st.db.Save(ctx, Kind, token.ID, rec); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}
