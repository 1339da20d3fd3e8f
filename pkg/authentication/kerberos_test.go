// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package authentication

import (
	"context"
	"encoding/base64"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestKerberosAuthenticateRejectsMissingHeader(t *testing.T) {
	t.Parallel()
	auth := &KerberosAuthenticator{}

	_, err := auth.Authenticate(context.Background())
	requireCode(t, err, codes.Unauthenticated,
		`Use "authorization: Negotiate <token>" metadata to authenticate`)
}

func TestKerberosAuthenticateRejectsSessionHeader(t *testing.T) {
	t.Parallel()
	auth := &KerberosAuthenticator{}

	_, err := auth.Authenticate(ctxWithAuthorization("BrokerSession abc"))
	requireCode(t, err, codes.Unauthenticated,
		`Use "authorization: Negotiate <token>" metadata to authenticate`)
}

func TestKerberosAuthenticateRejectsUndecodableToken(t *testing.T) {
	t.Parallel()
	auth := &KerberosAuthenticator{}

	// A present but garbled handshake is rejected, not re-challenged.
	_, err := auth.Authenticate(ctxWithAuthorization("Negotiate %%not-base64%%"))
	requireCode(t, err, codes.PermissionDenied, "")
}

func TestKerberosAuthenticateRejectsNonSPNEGOToken(t *testing.T) {
	t.Parallel()
	auth := &KerberosAuthenticator{}

	body := base64.StdEncoding.EncodeToString([]byte("not a gss token"))
	_, err := auth.Authenticate(ctxWithAuthorization("Negotiate " + body))
	requireCode(t, err, codes.PermissionDenied, "")
}
