// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package authentication

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/sessions"
)

// SessionAuthenticator validates broker-issued session tokens and resolves
// them to their live session.
type SessionAuthenticator struct {
	codec *sessions.TokenCodec
	store *sessions.Store
	now   func() time.Time
}

// NewSessionAuthenticator creates a session authenticator over the given
// codec and store.
func NewSessionAuthenticator(codec *sessions.TokenCodec, store *sessions.Store) *SessionAuthenticator {
	return &SessionAuthenticator{
		codec: codec,
		store: store,
		now:   time.Now,
	}
}

// Resolve decodes a session token and returns the session it names, after
// checking the encrypted secret against the stored session. A session that no
// longer exists fails with sessions.ErrNotFound so callers can choose their
// own rejection; structural defects and secret mismatches both fail with an
// identical invalid-token error to avoid leaking which part was wrong.
//
// Resolve does not check expiry: renewal of a lapsed (but not yet swept)
// session is allowed.
func (a *SessionAuthenticator) Resolve(ctx context.Context, token string) (*sessions.Session, error) {
	sessionID, encryptedSecret, err := a.codec.Decode(token)
	if err != nil {
		return nil, errInvalidSessionToken()
	}

	session, err := a.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ok, err := a.codec.Verify(ctx, session, encryptedSecret)
	if err != nil || !ok {
		return nil, errInvalidSessionToken()
	}
	return session, nil
}

// Authenticate validates the session token in the authorization metadata and
// returns the live session it names. Unlike Resolve, expired sessions are
// rejected here.
func (a *SessionAuthenticator) Authenticate(ctx context.Context) (*sessions.Session, error) {
	header := authorizationValue(ctx)
	if !strings.HasPrefix(header, sessionPrefix) {
		return nil, errNegotiateRequired()
	}

	session, err := a.Resolve(ctx, strings.TrimPrefix(header, sessionPrefix))
	if errors.Is(err, sessions.ErrNotFound) {
		return nil, brokererror.Abort(codes.Unauthenticated, "Session token is invalid or has expired")
	}
	if err != nil {
		return nil, err
	}

	if session.IsExpired(a.now()) {
		return nil, brokererror.Abort(codes.Unimplemented, "Expired session ID: "+session.ID)
	}
	return session, nil
}

func errInvalidSessionToken() error {
	return brokererror.Abort(codes.Unauthenticated, "Invalid session token")
}
