// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package encryption

import (
	"context"
	"fmt"

	kms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
)

// Compile-time interface compliance check.
var _ Service = (*CloudKMS)(nil)

// CloudKMS is the production encryption backend. All cryptographic operations
// are performed server-side by Cloud KMS; key material never reaches the
// broker process.
type CloudKMS struct {
	client *kms.KeyManagementClient
}

// NewCloudKMS creates a Cloud KMS backend using application default
// credentials.
func NewCloudKMS(ctx context.Context) (*CloudKMS, error) {
	client, err := kms.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create KMS client: %w", err)
	}
	return &CloudKMS{client: client}, nil
}

// Encrypt encrypts plaintext under the named crypto key.
func (c *CloudKMS) Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error) {
	resp, err := c.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      keyID,
		Plaintext: plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("KMS encrypt with key %s failed: %w", keyID, err)
	}
	return resp.GetCiphertext(), nil
}

// Decrypt decrypts ciphertext previously produced under the named crypto key.
func (c *CloudKMS) Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error) {
	resp, err := c.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       keyID,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return nil, fmt.Errorf("KMS decrypt with key %s failed: %w", keyID, err)
	}
	return resp.GetPlaintext(), nil
}

// Close releases the underlying client connection.
func (c *CloudKMS) Close() error {
	return c.client.Close()
}
