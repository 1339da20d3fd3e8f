// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
	"github.com/stacklok/tokenbroker/pkg/authentication"
	"github.com/stacklok/tokenbroker/pkg/brokerserver"
	"github.com/stacklok/tokenbroker/pkg/cache"
	"github.com/stacklok/tokenbroker/pkg/database"
	"github.com/stacklok/tokenbroker/pkg/encryption"
	"github.com/stacklok/tokenbroker/pkg/logger"
	"github.com/stacklok/tokenbroker/pkg/oauth"
	"github.com/stacklok/tokenbroker/pkg/providers"
	"github.com/stacklok/tokenbroker/pkg/sessions"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the broker gRPC server",
	RunE:  serveCmdFunc,
}

func serveCmdFunc(cmd *cobra.Command, _ []string) error {
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	logger.Initialize(cfg.LoggingLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crypto, err := encryption.New(ctx, cfg.EncryptionBackend)
	if err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}
	if closer, ok := crypto.(io.Closer); ok {
		defer closer.Close()
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	remote, err := cache.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer remote.Close()

	sessionStore := sessions.NewStore(db, cfg.SessionRenewPeriod, cfg.SessionMaximumLifetime)
	codec := sessions.NewTokenCodec(crypto, cfg.EncryptionDelegationTokenCryptoKey)

	provider, err := providers.New(ctx, cfg, oauth.NewStore(db), crypto)
	if err != nil {
		return fmt.Errorf("failed to initialize provider: %w", err)
	}

	fetcher := accesstokens.NewFetcher(accesstokens.FetcherConfig{
		Local:            cache.NewLocal[*accesstokens.AccessToken](),
		Remote:           remote,
		Crypto:           crypto,
		CacheKey:         cfg.EncryptionAccessTokenCacheCryptoKey,
		Provider:         provider,
		RemoteTTLSeconds: cfg.AccessTokenRemoteCacheTime,
		LocalTTLSeconds:  cfg.AccessTokenLocalCacheTime,
	})

	auth, err := authentication.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize authentication: %w", err)
	}

	server := brokerserver.NewServer(brokerserver.Config{
		Settings:             cfg,
		Authenticator:        auth,
		SessionAuthenticator: authentication.NewSessionAuthenticator(codec, sessionStore),
		Sessions:             sessionStore,
		TokenCodec:           codec,
		Fetcher:              fetcher,
	})

	return brokerserver.Serve(ctx, cfg, server)
}
