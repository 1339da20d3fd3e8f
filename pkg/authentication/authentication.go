// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package authentication verifies the identity of broker callers. Direct
// callers authenticate with a GSSAPI/SPNEGO handshake; delegated callers
// present a broker-issued session token instead.
package authentication

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"

	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

const (
	// authorizationKey is the gRPC metadata key carrying caller credentials.
	authorizationKey = "authorization"

	// negotiatePrefix marks a SPNEGO handshake credential.
	negotiatePrefix = "Negotiate "

	// sessionPrefix marks a broker-issued session token credential.
	sessionPrefix = "BrokerSession "
)

// Authenticator verifies the caller's credentials and returns the
// authenticated principal, e.g. alice@EXAMPLE.COM.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// New creates the authenticator selected by cfg.AuthBackend.
func New(cfg *settings.Settings) (Authenticator, error) {
	switch cfg.AuthBackend {
	case settings.AuthBackendKerberos:
		return NewKerberosAuthenticator(cfg)
	default:
		return nil, fmt.Errorf("unknown auth backend: %s", cfg.AuthBackend)
	}
}

// authorizationValue extracts the authorization metadata value, or "" when
// the caller sent none.
func authorizationValue(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(authorizationKey)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// HasSessionToken reports whether the caller presented a session token
// instead of direct credentials.
func HasSessionToken(ctx context.Context) bool {
	return strings.HasPrefix(authorizationValue(ctx), sessionPrefix)
}

// errNegotiateRequired tells the caller how to authenticate. The message is
// part of the client contract; connectors string-match on it.
func errNegotiateRequired() error {
	return brokererror.Abort(codes.Unauthenticated,
		`Use "authorization: Negotiate <token>" metadata to authenticate`)
}
