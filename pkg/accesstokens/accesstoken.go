// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package accesstokens holds the minted OAuth2 access tokens and the
// two-tier, stampede-safe cache lookup in front of the providers.
package accesstokens

import (
	"encoding/json"
	"fmt"
)

// AccessToken is a minted bearer token. It is cached as ciphertext of its
// JSON encoding in the remote tier and in plaintext in the local tier.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // ms since epoch
}

// Marshal returns the canonical JSON encoding used by the remote cache.
func (t *AccessToken) Marshal() ([]byte, error) {
	encoded, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode access token: %w", err)
	}
	return encoded, nil
}

// Unmarshal parses the canonical JSON encoding.
func Unmarshal(data []byte) (*AccessToken, error) {
	var token AccessToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}
	return &token, nil
}

// Fingerprint is the cache key identifying the single-flight class of a token
// request. It deliberately excludes the target: sessions with the same owner
// and scope share minted tokens.
func Fingerprint(owner, scope string) string {
	return "access-token-" + owner + "-" + scope
}
