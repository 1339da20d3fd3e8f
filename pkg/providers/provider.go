// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package providers mints OAuth2 access tokens for cloud identities. Each
// provider is one strategy for obtaining a token; the backend is selected
// once at startup.
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
	"github.com/stacklok/tokenbroker/pkg/encryption"
	"github.com/stacklok/tokenbroker/pkg/oauth"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// Provider mints an access token for the given cloud identity and scope.
type Provider interface {
	GetAccessToken(ctx context.Context, owner, scope string) (*accesstokens.AccessToken, error)
}

// New creates the provider selected by cfg.ProviderBackend. The refresh-token
// store and crypto service are only used by the refresh-token provider; the
// other backends ignore them.
func New(ctx context.Context, cfg *settings.Settings, tokens *oauth.Store, crypto encryption.Service) (Provider, error) {
	switch cfg.ProviderBackend {
	case settings.ProviderBackendShadow:
		return NewShadowServiceAccountProvider(cfg), nil
	case settings.ProviderBackendDomainWideDelegation:
		return NewDomainWideDelegationProvider(ctx, cfg)
	case settings.ProviderBackendRefreshToken:
		return NewRefreshTokenProvider(cfg, tokens, crypto)
	default:
		return nil, fmt.Errorf("unknown provider backend: %s", cfg.ProviderBackend)
	}
}

// expiresAtMillis converts a token lifetime in seconds from now into the
// broker's millisecond epoch representation.
func expiresAtMillis(now time.Time, lifetimeSeconds int64) int64 {
	return now.Add(time.Duration(lifetimeSeconds) * time.Second).UnixMilli()
}

// cloudIdentity maps a Kerberos principal to its cloud-domain identity. The
// realm suffix is swapped for the configured domain; with no domain configured
// the owner passes through unchanged.
func cloudIdentity(owner, domain string) string {
	if domain == "" {
		return owner
	}
	username, _, _ := strings.Cut(owner, "@")
	return username + "@" + domain
}
