// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package accesstokens

import (
	"context"
	"fmt"

	"github.com/stacklok/tokenbroker/pkg/cache"
	"github.com/stacklok/tokenbroker/pkg/encryption"
	"github.com/stacklok/tokenbroker/pkg/logger"
)

// lockSuffix names the distributed lock guarding a fingerprint's provider
// call.
const lockSuffix = "_lock"

// Provider mints a fresh access token for (owner, scope). Implementations
// live in pkg/providers.
type Provider interface {
	GetAccessToken(ctx context.Context, owner, scope string) (*AccessToken, error)
}

// FetcherConfig wires the fetcher's collaborators and TTLs.
type FetcherConfig struct {
	Local    *cache.Local[*AccessToken]
	Remote   cache.Remote
	Crypto   encryption.Service
	CacheKey string // KMS key for remote cache ciphertext
	Provider Provider

	RemoteTTLSeconds int
	LocalTTLSeconds  int
}

// Fetcher resolves access tokens through the local tier, the remote tier and
// finally the provider, with a lock-then-recheck protocol so that at most one
// provider call per fingerprint is in flight across the cluster.
type Fetcher struct {
	cfg FetcherConfig
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	return &Fetcher{cfg: cfg}
}

// Fetch returns a token for (owner, scope), minting one only when both cache
// tiers miss.
//
// The remote tier is re-read after the lock is acquired: a competing node may
// have minted and cached the token while we were waiting. The lock is
// released on every exit path, and neither tier is populated when the
// provider fails.
func (f *Fetcher) Fetch(ctx context.Context, owner, scope string) (*AccessToken, error) {
	fingerprint := Fingerprint(owner, scope)

	if token, ok := f.cfg.Local.Get(fingerprint); ok {
		return token, nil
	}

	token, err := f.readRemote(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if token == nil {
		token, err = f.mintUnderLock(ctx, fingerprint, owner, scope)
		if err != nil {
			return nil, err
		}
	}

	f.cfg.Local.Set(fingerprint, token, f.cfg.LocalTTLSeconds)
	return token, nil
}

// readRemote reads the remote tier and decrypts a hit. A miss returns
// (nil, nil).
func (f *Fetcher) readRemote(ctx context.Context, fingerprint string) (*AccessToken, error) {
	ciphertext, err := f.cfg.Remote.Get(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if ciphertext == nil {
		return nil, nil
	}

	plaintext, err := f.cfg.Crypto.Decrypt(ctx, f.cfg.CacheKey, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt cached access token: %w", err)
	}
	return Unmarshal(plaintext)
}

// mintUnderLock acquires the fingerprint's lock, re-checks the remote tier,
// and only then invokes the provider and populates the remote tier.
func (f *Fetcher) mintUnderLock(ctx context.Context, fingerprint, owner, scope string) (_ *AccessToken, err error) {
	lock, err := f.cfg.Remote.AcquireLock(ctx, fingerprint+lockSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token lock: %w", err)
	}
	defer func() {
		if releaseErr := lock.Release(ctx); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()

	// A competing worker may have minted the token while we waited.
	token, err := f.readRemote(ctx, fingerprint)
	if err != nil || token != nil {
		return token, err
	}

	token, err = f.cfg.Provider.GetAccessToken(ctx, owner, scope)
	if err != nil {
		return nil, err
	}

	plaintext, err := token.Marshal()
	if err != nil {
		return nil, err
	}
	ciphertext, err := f.cfg.Crypto.Encrypt(ctx, f.cfg.CacheKey, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token for caching: %w", err)
	}
	if err := f.cfg.Remote.Set(ctx, fingerprint, ciphertext, f.cfg.RemoteTTLSeconds); err != nil {
		// The token itself is good; a cache write failure only costs the
		// next caller a mint.
		logger.Warnw("failed to populate remote token cache", "error", err)
	}
	return token, nil
}
