// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// DomainWideDelegationProvider mints tokens under the broker's own service
// account, which holds domain-wide delegation authority over the user domain.
// The assertion is broker-issued with the user as the delegation subject.
type DomainWideDelegationProvider struct {
	minter        *jwtMinter
	brokerAccount string
	domain        string
}

var _ Provider = (*DomainWideDelegationProvider)(nil)

// NewDomainWideDelegationProvider creates the provider. The broker's service
// account email is resolved from the instance metadata server once, at
// startup.
func NewDomainWideDelegationProvider(ctx context.Context, cfg *settings.Settings) (*DomainWideDelegationProvider, error) {
	account, err := brokerServiceAccount(ctx)
	if err != nil {
		return nil, err
	}
	return &DomainWideDelegationProvider{
		minter:        newJWTMinter(cfg.JWTLife),
		brokerAccount: account,
		domain:        cfg.DomainName,
	}, nil
}

// GetAccessToken mints a token on behalf of owner through the broker's
// delegation authority.
func (p *DomainWideDelegationProvider) GetAccessToken(ctx context.Context, owner, scope string) (*accesstokens.AccessToken, error) {
	return p.minter.mint(ctx, p.brokerAccount, scope, jwt.MapClaims{"sub": p.subject(owner)})
}

// subject maps the owner to an identity in the delegated domain.
func (p *DomainWideDelegationProvider) subject(owner string) string {
	return cloudIdentity(owner, p.domain)
}
