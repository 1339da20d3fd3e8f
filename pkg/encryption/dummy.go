// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
)

// Compile-time interface compliance check.
var _ Service = (*Dummy)(nil)

// Dummy is a trivially reversible envelope bound to the key identifier. It
// exists so that tests and local development do not need a KMS; it provides
// no confidentiality. Do not use in production.
type Dummy struct{}

// NewDummy creates the dummy backend.
func NewDummy() *Dummy {
	return &Dummy{}
}

// Encrypt produces "<keyID>:" followed by the base64 encoding of plaintext.
func (*Dummy) Encrypt(_ context.Context, keyID string, plaintext []byte) ([]byte, error) {
	encoded := base64.StdEncoding.EncodeToString(plaintext)
	return []byte(keyID + ":" + encoded), nil
}

// Decrypt reverses Encrypt, verifying the key binding.
func (*Dummy) Decrypt(_ context.Context, keyID string, ciphertext []byte) ([]byte, error) {
	prefix := []byte(keyID + ":")
	if !bytes.HasPrefix(ciphertext, prefix) {
		return nil, fmt.Errorf("ciphertext was not produced under key %s", keyID)
	}
	plaintext, err := base64.StdEncoding.DecodeString(string(bytes.TrimPrefix(ciphertext, prefix)))
	if err != nil {
		return nil, fmt.Errorf("malformed ciphertext: %w", err)
	}
	return plaintext, nil
}
