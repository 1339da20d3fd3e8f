// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// ShadowServiceAccountProvider mints tokens for per-user shadow service
// accounts. Each user owns a dedicated account named after them in the shadow
// project, and the broker's identity holds the Token Creator role on it. The
// assertion is self-issued: the shadow account signs a JWT about itself.
type ShadowServiceAccountProvider struct {
	minter  *jwtMinter
	project string
}

var _ Provider = (*ShadowServiceAccountProvider)(nil)

// NewShadowServiceAccountProvider creates the provider.
func NewShadowServiceAccountProvider(cfg *settings.Settings) *ShadowServiceAccountProvider {
	return &ShadowServiceAccountProvider{
		minter:  newJWTMinter(cfg.JWTLife),
		project: cfg.ShadowProject,
	}
}

// GetAccessToken mints a token as the owner's shadow service account.
func (p *ShadowServiceAccountProvider) GetAccessToken(ctx context.Context, owner, scope string) (*accesstokens.AccessToken, error) {
	return p.minter.mint(ctx, p.shadowAccount(owner), scope, nil)
}

// shadowAccount maps a cloud identity to its shadow service account. Only the
// local part of the identity participates in the name.
func (p *ShadowServiceAccountProvider) shadowAccount(owner string) string {
	username, _, _ := strings.Cut(owner, "@")
	return fmt.Sprintf("%s-shadow@%s.iam.gserviceaccount.com", username, p.project)
}
