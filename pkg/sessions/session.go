// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package sessions holds the broker's durable session records and the opaque
// session-token format clients carry between calls.
package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stacklok/tokenbroker/pkg/database"
)

// Kind is the record-store kind sessions are persisted under.
const Kind = "sessions"

// passwordBytes is the entropy of the session secret. The secret is encoded
// URL-safe without padding, matching the token wire format.
const passwordBytes = 24

// ErrNotFound is returned when no session exists under the requested id, or
// when the stored session has already expired.
var ErrNotFound = errors.New("session not found")

// Session binds an owner, a renewer, a target resource and an OAuth scope to
// an opaque id and a secret. The id and password are assigned at creation and
// never mutated; only the expiry moves, through Extend.
type Session struct {
	ID           string
	Password     string
	Owner        string
	Renewer      string
	Target       string
	Scope        string
	ExpiresAt    int64 // ms since epoch
	CreationTime int64 // ms since epoch
}

// IsExpired reports whether the session's expiry has passed.
func (s *Session) IsExpired(now time.Time) bool {
	return Millis(now) >= s.ExpiresAt
}

// Millis converts a wall-clock time to milliseconds since epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Store persists sessions in the generic record store and owns the lifetime
// arithmetic.
type Store struct {
	db          database.Store
	renewPeriod int64 // ms
	maxLifetime int64 // ms
	now         func() time.Time
}

// NewStore creates a session store. renewPeriod and maxLifetime are in
// milliseconds.
func NewStore(db database.Store, renewPeriod, maxLifetime int64) *Store {
	return &Store{
		db:          db,
		renewPeriod: renewPeriod,
		maxLifetime: maxLifetime,
		now:         time.Now,
	}
}

// Create builds and persists a new session. The secret comes from the
// cryptographic RNG; the initial expiry is one renewal period out, capped by
// the maximum lifetime.
func (st *Store) Create(ctx context.Context, owner, renewer, target, scope string) (*Session, error) {
	password, err := generatePassword()
	if err != nil {
		return nil, err
	}

	now := Millis(st.now())
	session := &Session{
		ID:           uuid.NewString(),
		Password:     password,
		Owner:        owner,
		Renewer:      renewer,
		Target:       target,
		Scope:        scope,
		CreationTime: now,
	}
	session.ExpiresAt = now + st.lifetimeIncrement()

	if err := st.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get rehydrates the session or fails with ErrNotFound.
func (st *Store) Get(ctx context.Context, id string) (*Session, error) {
	rec, err := st.db.Get(ctx, Kind, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return fromRecord(id, rec)
}

// Save persists the session under its id.
func (st *Store) Save(ctx context.Context, session *Session) error {
	if err := st.db.Save(ctx, Kind, session.ID, toRecord(session)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session from the store.
func (st *Store) Delete(ctx context.Context, session *Session) error {
	if err := st.db.Delete(ctx, Kind, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Extend moves the session's expiry to now plus one renewal period (capped by
// the maximum lifetime) and persists it.
func (st *Store) Extend(ctx context.Context, session *Session) error {
	session.ExpiresAt = Millis(st.now()) + st.lifetimeIncrement()
	return st.Save(ctx, session)
}

// DeleteExpired sweeps sessions whose expiry has passed and reports how many
// were removed.
func (st *Store) DeleteExpired(ctx context.Context) (int, error) {
	return st.db.DeleteExpired(ctx, Kind, Millis(st.now()))
}

func (st *Store) lifetimeIncrement() int64 {
	return min(st.renewPeriod, st.maxLifetime)
}

func generatePassword() (string, error) {
	raw := make([]byte, passwordBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func toRecord(s *Session) database.Record {
	return database.Record{
		"password":      s.Password,
		"owner":         s.Owner,
		"renewer":       s.Renewer,
		"target":        s.Target,
		"scope":         s.Scope,
		"expires_at":    strconv.FormatInt(s.ExpiresAt, 10),
		"creation_time": strconv.FormatInt(s.CreationTime, 10),
	}
}

func fromRecord(id string, rec database.Record) (*Session, error) {
	expiresAt, err := strconv.ParseInt(rec["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %w", id, err)
	}
	creationTime, err := strconv.ParseInt(rec["creation_time"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %w", id, err)
	}
	return &Session{
		ID:           id,
		Password:     rec["password"],
		Owner:        rec["owner"],
		Renewer:      rec["renewer"],
		Target:       rec["target"],
		Scope:        rec["scope"],
		ExpiresAt:    expiresAt,
		CreationTime: creationTime,
	}, nil
}
