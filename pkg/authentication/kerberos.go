// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package authentication

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jcmturner/goidentity/v6"
	"github.com/jcmturner/gokrb5/v8/gssapi"
	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/jcmturner/gokrb5/v8/service"
	"github.com/jcmturner/gokrb5/v8/spnego"
	"google.golang.org/grpc/codes"

	"github.com/stacklok/tokenbroker/pkg/brokererror"
	"github.com/stacklok/tokenbroker/pkg/logger"
	"github.com/stacklok/tokenbroker/pkg/settings"
)

// KerberosAuthenticator accepts SPNEGO handshakes against the broker's
// service principal.
type KerberosAuthenticator struct {
	acceptor *spnego.SPNEGO
}

var _ Authenticator = (*KerberosAuthenticator)(nil)

// NewKerberosAuthenticator loads the broker keytab and prepares the SPNEGO
// acceptor for the <service>/<hostname> principal.
func NewKerberosAuthenticator(cfg *settings.Settings) (*KerberosAuthenticator, error) {
	kt, err := keytab.Load(cfg.KeytabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keytab %s: %w", cfg.KeytabPath, err)
	}

	principal := cfg.BrokerServiceName + "/" + cfg.BrokerServiceHostname
	return &KerberosAuthenticator{
		acceptor: spnego.SPNEGOService(kt, service.KeytabPrincipal(principal)),
	}, nil
}

// Authenticate completes the SPNEGO handshake carried in the authorization
// metadata and returns the client principal as user@REALM.
func (a *KerberosAuthenticator) Authenticate(ctx context.Context) (string, error) {
	header := authorizationValue(ctx)
	if !strings.HasPrefix(header, negotiatePrefix) {
		return "", errNegotiateRequired()
	}

	// An undecodable body is a failed handshake, not a missing one.
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, negotiatePrefix))
	if err != nil {
		logger.Debugw("undecodable SPNEGO token", "error", err)
		return "", errSPNEGORejected()
	}

	var token spnego.SPNEGOToken
	if err := token.Unmarshal(raw); err != nil {
		logger.Debugw("malformed SPNEGO token", "error", err)
		return "", errSPNEGORejected()
	}

	authed, spnegoCtx, st := a.acceptor.AcceptSecContext(&token)
	if !authed || st.Code != gssapi.StatusComplete {
		logger.Debugw("SPNEGO context rejected", "status", st.Message)
		return "", errSPNEGORejected()
	}

	// gokrb5 stores the authenticated identity under this unexported
	// context key string (spnego/http.go ctxCredentials).
	creds, ok := spnegoCtx.Value("github.com/jcmturner/gokrb5/v8/ctxCredentials").(goidentity.Identity)
	if !ok {
		return "", errSPNEGORejected()
	}
	return creds.UserName() + "@" + creds.Domain(), nil
}

// errSPNEGORejected deliberately carries no detail; GSSAPI failure reasons
// stay in the server log.
func errSPNEGORejected() error {
	return brokererror.Abort(codes.PermissionDenied, "")
}
