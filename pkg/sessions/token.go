// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stacklok/tokenbroker/pkg/encryption"
)

// tokenSeparator joins the two base64url pieces of a session token.
const tokenSeparator = "."

// ErrInvalidToken is returned by Decode for any malformed token structure.
var ErrInvalidToken = errors.New("invalid session token")

// tokenHeader is the cleartext half of a session token. It is unauthenticated
// and must only ever be used as a lookup key; authenticity comes from the
// password ciphertext in the second half.
type tokenHeader struct {
	SessionID string `json:"session_id"`
}

// TokenCodec encodes and verifies session tokens. The wire format is
// base64url(header) "." base64url(Encrypt(delegation key, password)).
type TokenCodec struct {
	crypto encryption.Service
	keyID  string
}

// NewTokenCodec creates a codec bound to the delegation crypto key.
func NewTokenCodec(crypto encryption.Service, keyID string) *TokenCodec {
	return &TokenCodec{crypto: crypto, keyID: keyID}
}

// Encode builds the session token for the given session.
func (c *TokenCodec) Encode(ctx context.Context, session *Session) (string, error) {
	header, err := json.Marshal(tokenHeader{SessionID: session.ID})
	if err != nil {
		return "", fmt.Errorf("failed to encode token header: %w", err)
	}

	encryptedPassword, err := c.crypto.Encrypt(ctx, c.keyID, []byte(session.Password))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt session secret: %w", err)
	}

	return base64.URLEncoding.EncodeToString(header) +
		tokenSeparator +
		base64.URLEncoding.EncodeToString(encryptedPassword), nil
}

// Decode splits the token and returns the session id from the header along
// with the password ciphertext. Any structural defect fails with
// ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (string, []byte, error) {
	parts := strings.Split(token, tokenSeparator)
	if len(parts) != 2 {
		return "", nil, ErrInvalidToken
	}

	rawHeader, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", nil, ErrInvalidToken
	}
	var header tokenHeader
	if err := json.Unmarshal(rawHeader, &header); err != nil || header.SessionID == "" {
		return "", nil, ErrInvalidToken
	}

	encryptedPassword, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, ErrInvalidToken
	}

	return header.SessionID, encryptedPassword, nil
}

// Verify decrypts the password ciphertext and compares it against the
// session's secret in constant time.
func (c *TokenCodec) Verify(ctx context.Context, session *Session, encryptedPassword []byte) (bool, error) {
	password, err := c.crypto.Decrypt(ctx, c.keyID, encryptedPassword)
	if err != nil {
		return false, fmt.Errorf("failed to decrypt session secret: %w", err)
	}
	return subtle.ConstantTimeCompare(password, []byte(session.Password)) == 1, nil
}
