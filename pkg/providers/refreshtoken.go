// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/grpc/codes"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/encryption"
	"github.com/stacklok/tokenbroker/pkg/oauth"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// RefreshTokenProvider mints tokens from refresh grants that users previously
// established through the authorizer's consent flow. A missing or revoked
// grant surfaces as a permission error telling the user to (re-)authorize.
type RefreshTokenProvider struct {
	tokens       *oauth.Store
	crypto       encryption.Service
	cryptoKey    string
	clientSecret []byte
	domain       string
}

var _ Provider = (*RefreshTokenProvider)(nil)

// NewRefreshTokenProvider creates the provider, loading the OAuth client
// secrets file once at startup.
func NewRefreshTokenProvider(cfg *settings.Settings, tokens *oauth.Store, crypto encryption.Service) (*RefreshTokenProvider, error) {
	secret, err := os.ReadFile(cfg.ClientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}
	return &RefreshTokenProvider{
		tokens:       tokens,
		crypto:       crypto,
		cryptoKey:    cfg.EncryptionRefreshTokenCryptoKey,
		clientSecret: secret,
		domain:       cfg.DomainName,
	}, nil
}

// GetAccessToken redeems the owner's stored refresh grant for an access
// token. The authorizer keys grants by the owner's cloud-domain identity, so
// the Kerberos principal is mapped before the lookup; error messages keep the
// principal the caller knows itself by.
func (p *RefreshTokenProvider) GetAccessToken(ctx context.Context, owner, scope string) (*accesstokens.AccessToken, error) {
	stored, err := p.tokens.Get(ctx, cloudIdentity(owner, p.domain))
	if errors.Is(err, oauth.ErrNotFound) {
		return nil, unauthorizedUser(owner)
	}
	if err != nil {
		return nil, err
	}

	refreshToken, err := p.crypto.Decrypt(ctx, p.cryptoKey, stored.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	config, err := google.ConfigFromJSON(p.clientSecret, strings.Split(scope, ",")...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets: %w", err)
	}

	source := config.TokenSource(ctx, &oauth2.Token{RefreshToken: string(refreshToken)})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		// invalid_grant means the user revoked the broker's authorization
		// or the grant lapsed; the fix is on their side.
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return nil, unauthorizedUser(owner)
		}
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	return &accesstokens.AccessToken{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry.UnixMilli(),
	}, nil
}

func unauthorizedUser(owner string) error {
	return brokererror.Abort(codes.PermissionDenied,
		"GCP Token Broker authorization is invalid or has expired for user: "+owner)
}
