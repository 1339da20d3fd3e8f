// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package encryption defines the authenticated encryption contract the broker
// delegates to an external key-management service.
//
// The broker owns three distinct named keys (refresh-token, access-token-cache
// and delegation-secret) so that leaking one does not compromise the others,
// and so cache contents can be rotated independently of session tokens.
package encryption

import (
	"context"
	"fmt"

	"github.com/stacklok/tokenbroker/pkg/settings"
)

// Service is the two-method envelope contract. Key identifiers are opaque to
// the broker; the Cloud KMS backend expects fully qualified crypto key
// resource names.
type Service interface {
	// Encrypt encrypts plaintext under the named key.
	Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt. Ciphertext produced under a different key
	// fails.
	Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error)
}

// New creates the encryption backend selected by the given token.
func New(ctx context.Context, backend string) (Service, error) {
	switch backend {
	case settings.EncryptionBackendCloudKMS:
		return NewCloudKMS(ctx)
	case settings.EncryptionBackendDummy:
		return NewDummy(), nil
	default:
		return nil, fmt.Errorf("unknown encryption backend: %s", backend)
	}
}
